package views

// ViewState holds the sizing and status-line state shared by the archive
// browser and the changelog viewer. Embed it in a view model to pick up
// resize handling and the transient message shown under the tree.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize records the terminal dimensions after a resize event.
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets the status line, rendered in the error style when isErr
// is true (copy feedback, load failures).
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage drops the status line on the next navigation.
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}
