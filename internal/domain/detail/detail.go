package detail

import "github.com/kailas-cloud/ocrdesk/internal/domain/document"

// State is the terminal display state of a document detail view.
type State string

// Display states.
const (
	StateProcessing State = "processing"
	StateFailed     State = "failed"
	StateText       State = "text"
	StateNoText     State = "no_text"
	StateError      State = "error"
)

// User-facing messages per state.
const (
	MessageProcessing = "OCR processing in progress..."
	MessageFailed     = "OCR processing failed. Please try uploading the document again."
	MessageNoText     = "No text extracted from this document."
	MessageError      = "Error fetching document"
	MessageNotFound   = "Document not found"
)

// View is the rendered outcome of loading one document.
type View struct {
	state   State
	doc     document.Document
	message string
}

// FromDocument derives the display state from the document's OCR status.
func FromDocument(d document.Document) View {
	switch d.Status() {
	case document.StatusProcessing:
		return View{state: StateProcessing, doc: d, message: MessageProcessing}
	case document.StatusFailed:
		return View{state: StateFailed, doc: d, message: MessageFailed}
	case document.StatusCompleted:
		if d.ExtractedText() != "" {
			return View{state: StateText, doc: d}
		}
	}
	return View{state: StateNoText, doc: d, message: MessageNoText}
}

// Failure creates the error state. It carries no document.
func Failure(message string) View {
	if message == "" {
		message = MessageError
	}
	return View{state: StateError, message: message}
}

// State returns the display state.
func (v View) State() State { return v.state }

// Document returns the loaded document. ok is false in the error state.
func (v View) Document() (document.Document, bool) {
	return v.doc, v.state != StateError
}

// Text returns the extracted text in StateText, otherwise "".
func (v View) Text() string {
	if v.state != StateText {
		return ""
	}
	return v.doc.ExtractedText()
}

// Message returns the state message ("" for StateText).
func (v View) Message() string { return v.message }
