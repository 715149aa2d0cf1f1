package services

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"osrorders/internal/pkg/errs"
)

// ErrNoCarrierInDocument is returned when a document nominates no carrier,
// for example a manual pick or a goods-add order.
var ErrNoCarrierInDocument = errors.New("document nominates no carrier")

// ElementKind identifies the simulated machine element a sandbox command
// addresses.
type ElementKind int

const (
	// ElementUndefined represents an invalid or uninitialized element kind.
	ElementUndefined ElementKind = iota

	// ElementWorkflow is a plain workflow element.
	ElementWorkflow

	// ElementStation is a workstation.
	ElementStation

	// ElementGateway is a gateway.
	ElementGateway
)

// flag returns the simulator's element type flag.
func (k ElementKind) flag() (string, error) {
	switch k {
	case ElementWorkflow:
		return "e", nil
	case ElementStation:
		return "s", nil
	case ElementGateway:
		return "g", nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("kind",
			fmt.Errorf("%d is not a valid element kind", k))
	}
}

// SandboxCommandGenerator produces console commands for the OSR simulator
// that ships with sandbox installations. Orders sent to a simulated machine
// only progress when the matching carrier movements are replayed on the
// simulator console; the generator derives those commands from the order
// document, so an operator can paste them instead of composing them by hand.
//
// Example:
//
//	gen, _ := services.NewSandboxCommandGenerator("1")
//	cmd, _ := gen.InsertCarrier(2, "T925001")
//	// cmd == "simosr1 -i 2 T925001"
type SandboxCommandGenerator struct {
	osrID string
}

// NewSandboxCommandGenerator creates a generator for the simulator of the
// given OSR machine id. The id is lowercased and prefixed with "osr" when
// the prefix is missing, so "1", "osr1" and "OSR1" all address simosr1.
func NewSandboxCommandGenerator(osrID string) (SandboxCommandGenerator, error) {
	osrID = strings.ToLower(strings.TrimSpace(osrID))
	if osrID == "" {
		return SandboxCommandGenerator{}, errs.NewValueIsRequiredError("osrID")
	}
	if !strings.HasPrefix(osrID, "osr") {
		osrID = "osr" + osrID
	}

	return SandboxCommandGenerator{osrID: osrID}, nil
}

// InsertCarrier returns the command that inserts a carrier at an element.
func (g SandboxCommandGenerator) InsertCarrier(element int, carrier string) (string, error) {
	if err := g.validateTarget(element, carrier); err != nil {
		return "", err
	}
	return fmt.Sprintf("sim%s -i %d %s", g.osrID, element, carrier), nil
}

// RemoveCarrier returns the command that removes a carrier from an element.
func (g SandboxCommandGenerator) RemoveCarrier(element int, carrier string) (string, error) {
	if err := g.validateTarget(element, carrier); err != nil {
		return "", err
	}
	return fmt.Sprintf("sim%s -r %d %s", g.osrID, element, carrier), nil
}

// EnableElement returns the command that brings a simulated element online.
func (g SandboxCommandGenerator) EnableElement(element int, kind ElementKind) (string, error) {
	return g.elementCommand("--enable-element", element, kind)
}

// DisableElement returns the command that takes a simulated element offline.
func (g SandboxCommandGenerator) DisableElement(element int, kind ElementKind) (string, error) {
	return g.elementCommand("--disable-element", element, kind)
}

func (g SandboxCommandGenerator) elementCommand(verb string, element int, kind ElementKind) (string, error) {
	if element <= 0 {
		return "", errs.NewValueIsOutOfRangeError("element", element, 1, "unbounded")
	}
	flag, err := kind.flag()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("sim%s %s %s %d", g.osrID, verb, flag, element), nil
}

func (g SandboxCommandGenerator) validateTarget(element int, carrier string) error {
	if element <= 0 {
		return errs.NewValueIsOutOfRangeError("element", element, 1, "unbounded")
	}
	if strings.TrimSpace(carrier) == "" {
		return errs.NewValueIsRequiredError("carrier")
	}
	return nil
}

// CarrierFromDocument extracts the carrier a host2osr document nominates:
// the container_number of a pick or inventory order, or the
// compartment_number of a goods-in order. Returns ErrNoCarrierInDocument
// for documents without one.
func CarrierFromDocument(document string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(document))
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return "", ErrNoCarrierInDocument
		}
		if err != nil {
			return "", errs.NewValueIsInvalidErrorWithCause("document", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		for _, attr := range start.Attr {
			if attr.Name.Local == "container_number" || attr.Name.Local == "compartment_number" {
				if attr.Value != "" {
					return attr.Value, nil
				}
			}
		}
	}
}
