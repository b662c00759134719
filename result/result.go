// Package result declares the structured record downstream consumers receive
// alongside the raw document text. The identifying fields are forward-declared
// schema: no pipeline stage populates them yet, a later extraction stage is
// their intended producer.
package result

import "encoding/json"

// Field is an optional extracted value. The zero value is unset, which is
// distinct from a present-but-empty string.
type Field struct {
	value string
	set   bool
}

// Set returns a present Field holding v.
func Set(v string) Field { return Field{value: v, set: true} }

// IsSet reports whether a value was extracted.
func (f Field) IsSet() bool { return f.set }

// Value returns the extracted value and whether one is present.
func (f Field) Value() (string, bool) { return f.value, f.set }

// Or returns the extracted value, or def when unset.
func (f Field) Or(def string) string {
	if f.set {
		return f.value
	}
	return def
}

// MarshalJSON encodes an unset field as null so consumers can tell "not
// found" from "empty string found".
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

func (f *Field) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Field{}
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Set(v)
	return nil
}

// Record wraps extracted text plus identifying metadata.
type Record struct {
	RawText       string `json:"raw_text"`
	DocumentType  string `json:"document_type"`
	LCNumber      Field  `json:"lc_number"`
	InvoiceNumber Field  `json:"invoice_number"`
	Date          Field  `json:"date"`
	Amount        Field  `json:"amount"`
}

// New builds a record around the raw text with the default document type.
func New(rawText string) Record {
	return Record{RawText: rawText, DocumentType: "Unknown"}
}
