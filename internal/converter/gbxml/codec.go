package gbxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// ============================================================
// Codec
// ============================================================

var ErrEmptyDocument = errors.New("empty gbXML document")

// New returns an empty document with the schema attributes filled in.
func New() *GBXML {
	return &GBXML{
		Xmlns:                Namespace,
		Version:              SchemaVersion,
		UseSIUnitsForResults: "true",
		TemperatureUnit:      "C",
		LengthUnit:           "Meters",
		AreaUnit:             "SquareMeters",
		VolumeUnit:           "CubicMeters",
		Campus:               Campus{ID: "Campus-1"},
	}
}

// Encode writes the XML declaration followed by the indented document.
func Encode(w io.Writer, doc *GBXML) error {
	if doc == nil {
		return ErrEmptyDocument
	}
	out := *doc
	out.XMLName = xml.Name{Local: "gbXML"}
	if out.Xmlns == "" {
		out.Xmlns = Namespace
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encode gbXML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Marshal is Encode into a byte slice.
func Marshal(doc *GBXML) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a gbXML document.
func Decode(r io.Reader) (*GBXML, error) {
	var doc GBXML
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("decode gbXML: %w", err)
	}
	return &doc, nil
}
