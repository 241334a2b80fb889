package parse

import "github.com/verin/lumitrack/internal/chart"

type Parser interface {
	Parse(file string) (*chart.Chart, error)
}
