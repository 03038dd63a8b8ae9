package mpclient

import "github.com/tidwall/gjson"

// Document is one record returned by the materials database. The upstream
// schema varies between collections and versions, so a document is kept as
// raw JSON and fields are looked up by path.
type Document struct {
	raw gjson.Result
}

// NewDocument wraps a raw JSON object. Intended for tests and for decoding
// inside the client.
func NewDocument(json string) Document {
	return Document{raw: gjson.Parse(json)}
}

// Get looks up a field by gjson path.
func (d Document) Get(path string) gjson.Result {
	return d.raw.Get(path)
}

// Exists reports whether the document carries the field at all. A field
// present with a JSON null still counts as absent for extraction purposes.
func (d Document) Exists(path string) bool {
	v := d.raw.Get(path)
	return v.Exists() && v.Type != gjson.Null
}

// Raw returns the underlying JSON text.
func (d Document) Raw() string {
	return d.raw.Raw
}
