package etf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultUniverse is the compiled-in list of screened ETFs, in report order.
var DefaultUniverse = []string{
	"SPY", "QQQ", "IVV", "VOO", "VTI", "BND", "AGG", "GLD", "SLV", "IEFA",
	"EEM", "VWO", "TLT", "IWM", "XLK", "XLV", "XLE", "XLF", "XLI", "XLB",
	"XLP", "XLU", "XLY", "SMH", "SOXX", "IBB", "KBE", "KRE", "USO", "UNG",
	"HYG", "LQD", "SHY", "IEI", "TIP", "VNQ", "DBC", "GDX", "GDXJ", "EWJ",
	"MCHI", "FXI", "INDA", "EPI", "EWZ", "ARKK", "ARKW", "ARKG", "QCLN", "TAN",
	"ICLN", "PBW", "XBI", "LABU", "BLOK", "FINX", "LIT", "REMX", "URA", "KOL",
	"SCHD", "VYM", "VIG", "NOBL", "SPHD", "JEPI", "JEPQ", "DIVO", "SCHG", "VUG",
	"IVW", "IJR", "IJH", "IJS", "IJT", "AVUV", "AVDV", "AVEM", "AVDE", "AVUS",
}

// Universe returns a copy of the default universe.
func Universe() []string {
	out := make([]string, len(DefaultUniverse))
	copy(out, DefaultUniverse)
	return out
}

// UniverseSource enumerates the tickers of one batch run. An error from
// Tickers is structural: the batch cannot run at all.
type UniverseSource interface {
	Tickers(ctx context.Context) ([]string, error)
}

// StaticUniverse is a fixed, in-memory ticker list.
type StaticUniverse []string

func (s StaticUniverse) Tickers(_ context.Context) ([]string, error) {
	if len(s) == 0 {
		return nil, ErrEmptyUniverse
	}
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}

// FileUniverse reads tickers from a YAML list or a newline-separated file.
// Blank lines and lines starting with '#' are ignored.
type FileUniverse struct {
	Path string
}

func (f FileUniverse) Tickers(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	tickers, err := ParseUniverse(data)
	if err != nil {
		return nil, fmt.Errorf("parse universe %s: %w", f.Path, err)
	}
	return tickers, nil
}

// ErrEmptyUniverse is returned when a universe lists no tickers.
var ErrEmptyUniverse = errors.New("universe is empty")

// ParseUniverse accepts either a YAML sequence of symbols or plain text with
// one symbol per line. Symbols are upper-cased.
func ParseUniverse(data []byte) ([]string, error) {
	var raw []string
	if err := yaml.Unmarshal(data, &raw); err != nil || len(raw) == 0 {
		raw = strings.Split(string(data), "\n")
	}
	var out []string
	for _, line := range raw {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToUpper(s))
	}
	if len(out) == 0 {
		return nil, ErrEmptyUniverse
	}
	return out, nil
}
