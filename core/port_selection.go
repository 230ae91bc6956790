package core

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"appscan-traffic-recorder/api"
)

// PortMode is how the Start Proxy form picks a port.
type PortMode int

const (
	PortModeSpecify PortMode = iota
	PortModeRange
	PortModeRandom
)

const (
	minPort = 1
	maxPort = 65535
)

// PortModeLabels lists the radio labels in display order.
var PortModeLabels = []string{"Specify port", "Port range", "Random port"}

func (m PortMode) String() string {
	if int(m) >= 0 && int(m) < len(PortModeLabels) {
		return PortModeLabels[m]
	}
	return "Unknown"
}

// PortModeFromLabel maps a radio label back to its mode.
func PortModeFromLabel(label string) (PortMode, bool) {
	for i, l := range PortModeLabels {
		if l == label {
			return PortMode(i), true
		}
	}
	return PortModeSpecify, false
}

// ErrInvalidPort is wrapped by every port validation failure.
var ErrInvalidPort = errors.New("invalid port")

// randIntn is swapped in tests.
var randIntn = rand.Intn

// PortSelection is a parsed Start Proxy form. UpperBound 0 means a single port.
type PortSelection struct {
	Port       int
	UpperBound int
}

// Request builds the StartProxy call for this selection.
func (p PortSelection) Request(encrypted bool) api.StartProxyRequest {
	return api.StartProxyRequest{Port: p.Port, UpperBound: p.UpperBound, Encrypted: encrypted}
}

func (p PortSelection) String() string {
	if p.UpperBound != 0 {
		return fmt.Sprintf("%d-%d", p.Port, p.UpperBound)
	}
	return strconv.Itoa(p.Port)
}

// ParsePortSelection validates the form entries for mode. top is the port or
// lower bound; bottom is the upper bound and is ignored for PortModeSpecify.
// Range mode leaves the choice to the server; random mode draws a port here.
func ParsePortSelection(mode PortMode, top, bottom string) (PortSelection, error) {
	switch mode {
	case PortModeSpecify:
		port, err := parsePort("Port Number", top)
		if err != nil {
			return PortSelection{}, err
		}
		return PortSelection{Port: port}, nil

	case PortModeRange, PortModeRandom:
		lower, err := parsePort("Lower Bound", top)
		if err != nil {
			return PortSelection{}, err
		}
		upper, err := parsePort("Upper Bound", bottom)
		if err != nil {
			return PortSelection{}, err
		}
		if lower > upper {
			return PortSelection{}, fmt.Errorf("%w: lower bound %d is greater than upper bound %d", ErrInvalidPort, lower, upper)
		}
		if mode == PortModeRandom {
			return PortSelection{Port: lower + randIntn(upper-lower+1)}, nil
		}
		if lower == upper {
			return PortSelection{Port: lower}, nil
		}
		return PortSelection{Port: lower, UpperBound: upper}, nil
	}
	return PortSelection{}, fmt.Errorf("unknown port mode %d", mode)
}

func parsePort(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: %s is empty", ErrInvalidPort, field)
	}
	port, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidPort, field, value)
	}
	if port < minPort || port > maxPort {
		return 0, fmt.Errorf("%w: %s %d is outside %d-%d", ErrInvalidPort, field, port, minPort, maxPort)
	}
	return port, nil
}
