package model

// Document is an uploaded file held only for the duration of a grade request.
type Document struct {
	Content  []byte
	Filename string
	Ext      string
}
