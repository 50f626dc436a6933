// Package specfem reads SPECFEM ASCII seismograms: two whitespace separated
// columns of time and displacement, one sample per line. File names follow
// NET.STA.CHA.<suffix>, e.g. "IU.ANMO.BXZ.semd".
package specfem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sonify/sonify"
	timestats "github.com/cwbudde/algo-sonify/stats/time"
)

// ErrFormat reports malformed seismogram text.
var ErrFormat = errors.New("specfem: malformed seismogram")

// spacingTolerance is the relative deviation from the mean sample interval
// above which Read warns about an irregular time axis.
const spacingTolerance = 0.01

// Read parses a seismogram. Blank lines and lines starting with '#' are
// skipped; columns beyond the second are ignored. Dt is the mean spacing of
// the time column and T0 its first value.
func Read(r io.Reader) (*sonify.Trace, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var times, samples []float64
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: need time and value columns", ErrFormat, lineNo)
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: time: %v", ErrFormat, lineNo, err)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: value: %v", ErrFormat, lineNo, err)
		}
		if n := len(times); n > 0 && t <= times[n-1] {
			return nil, fmt.Errorf("%w: line %d: time %g does not increase", ErrFormat, lineNo, t)
		}
		times = append(times, t)
		samples = append(samples, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("specfem: read: %w", err)
	}
	if len(times) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrFormat, len(times))
	}

	n := len(times)
	dt := (times[n-1] - times[0]) / float64(n-1)
	if dev := maxSpacingDeviation(times, dt); dev > spacingTolerance {
		logrus.WithFields(logrus.Fields{
			"function":  "Read",
			"dt":        dt,
			"deviation": dev,
		}).Warn("Irregular time axis, using mean sample interval")
	}

	return &sonify.Trace{Samples: samples, Dt: dt, T0: times[0]}, nil
}

func maxSpacingDeviation(times []float64, dt float64) float64 {
	worst := 0.0
	for i := 1; i < len(times); i++ {
		worst = max(worst, math.Abs(times[i]-times[i-1]-dt)/dt)
	}
	return worst
}

// ParseName splits a SPECFEM file name into network, station and channel.
// ok is false when the base name has fewer than three dot separated parts.
func ParseName(path string) (network, station, channel string, ok bool) {
	parts := strings.Split(filepath.Base(path), ".")
	if len(parts) < 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// ReadFile reads the seismogram at path and fills the trace metadata from
// its file name.
func ReadFile(path string) (*sonify.Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("specfem: open %s: %w", path, err)
	}
	defer f.Close()

	tr, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log := logrus.WithFields(logrus.Fields{"function": "ReadFile", "path": path})
	if net, sta, cha, ok := ParseName(path); ok {
		tr.Network, tr.Station, tr.Channel = net, sta, cha
	} else {
		log.Warn("File name is not NET.STA.CHA.*, output names carry no station prefix")
	}

	st := timestats.Calculate(tr.Samples)
	log.WithFields(logrus.Fields{
		"station":  tr.Name(),
		"samples":  tr.Len(),
		"t0":       tr.T0,
		"dt":       tr.Dt,
		"duration": tr.Duration(),
		"min":      st.Min,
		"max":      st.Max,
	}).Info("Read seismogram")
	return tr, nil
}
