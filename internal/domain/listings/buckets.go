package listings

// Bucket is a named half-open range [Low, High). Open buckets have no upper bound.
type Bucket struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Low   float64 `json:"low"`
	High  float64 `json:"high,omitempty"`
	Open  bool    `json:"open,omitempty"`
}

// Contains reports whether v falls inside the bucket.
func (b Bucket) Contains(v float64) bool {
	if v < b.Low {
		return false
	}
	return b.Open || v < b.High
}

// PriceBuckets are expressed in millions of VND.
var PriceBuckets = []Bucket{
	{Key: "0-500", Label: "Dưới 500 triệu", Low: 0, High: 500},
	{Key: "500-1000", Label: "500 triệu - 1 tỷ", Low: 500, High: 1000},
	{Key: "1000-2000", Label: "1 tỷ - 2 tỷ", Low: 1000, High: 2000},
	{Key: "2000-3000", Label: "2 tỷ - 3 tỷ", Low: 2000, High: 3000},
	{Key: "3000-5000", Label: "3 tỷ - 5 tỷ", Low: 3000, High: 5000},
	{Key: "5000-10000", Label: "5 tỷ - 10 tỷ", Low: 5000, High: 10000},
	{Key: "10000-20000", Label: "10 tỷ - 20 tỷ", Low: 10000, High: 20000},
	{Key: "20000+", Label: "Trên 20 tỷ", Low: 20000, Open: true},
}

// AreaBuckets are expressed in square metres.
var AreaBuckets = []Bucket{
	{Key: "0-30", Label: "Dưới 30 m²", Low: 0, High: 30},
	{Key: "30-50", Label: "30 - 50 m²", Low: 30, High: 50},
	{Key: "50-80", Label: "50 - 80 m²", Low: 50, High: 80},
	{Key: "80-120", Label: "80 - 120 m²", Low: 80, High: 120},
	{Key: "120-200", Label: "120 - 200 m²", Low: 120, High: 200},
	{Key: "200+", Label: "Trên 200 m²", Low: 200, Open: true},
}

// PriceBucket looks up a price bucket by key.
func PriceBucket(key string) (Bucket, bool) {
	return lookupBucket(PriceBuckets, key)
}

// AreaBucket looks up an area bucket by key.
func AreaBucket(key string) (Bucket, bool) {
	return lookupBucket(AreaBuckets, key)
}

func lookupBucket(buckets []Bucket, key string) (Bucket, bool) {
	for _, b := range buckets {
		if b.Key == key {
			return b, true
		}
	}
	return Bucket{}, false
}
