package terminal

// Effect is an action the front end performs after printing a result.
// The concrete types are [None], [OpenLink], [Download], [ScrollTo] and
// [Clear].
type Effect interface {
	Kind() string
}

// None is the absence of an effect.
type None struct{}

// OpenLink asks the front end to open URL, in a new window when possible.
type OpenLink struct {
	URL string `json:"url"`
}

// Download asks the front end to save URL as Filename. When Open is set the
// document is also opened for viewing.
type Download struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Open     bool   `json:"open"`
}

// ScrollTo asks the front end to bring a page section into view.
type ScrollTo struct {
	Section string `json:"section"`
}

// Clear asks the front end to reset its scrollback.
type Clear struct{}

func (None) Kind() string     { return "none" }
func (OpenLink) Kind() string { return "open_link" }
func (Download) Kind() string { return "download" }
func (ScrollTo) Kind() string { return "scroll_to" }
func (Clear) Kind() string    { return "clear" }
