package ginserver

import (
	"fmt"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"
)

type paramError struct {
	name string
	raw  string
}

func (e paramError) Error() string {
	return fmt.Sprintf("invalid %s parameter %q", e.name, e.raw)
}

// params collects the first malformed query parameter while parsing the rest.
type params struct {
	c   *gin.Context
	err error
}

func (p *params) fail(name, raw string) {
	if p.err == nil {
		p.err = paramError{name: name, raw: raw}
	}
}

func (p *params) str(name string) string {
	return strings.TrimSpace(p.c.Query(name))
}

func (p *params) intValue(name string) int {
	raw := p.str(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(name, raw)
	}
	return v
}

func (p *params) int64Value(name string) int64 {
	raw := p.str(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.fail(name, raw)
	}
	return v
}

func (p *params) floatValue(name string) float64 {
	raw := p.str(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(name, raw)
	}
	return v
}

func (p *params) boolValue(name string) bool {
	raw := p.str(name)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(name, raw)
	}
	return v
}

// list accepts both repeated parameters and comma separated values.
func (p *params) list(name string) []string {
	var out []string
	for _, raw := range p.c.QueryArray(name) {
		out = append(out, splitCSV(raw)...)
	}
	return out
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
