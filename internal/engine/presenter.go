package engine

// Presentation describes the item the UI should show.
type Presentation struct {
	DisplayText string
	IsSentence  bool
	// UnderlineSubWord is the sentence word being typed, or -1.
	UnderlineSubWord int
	SpeakText        string
	SpeakWhole       bool
	// Hint holds the chord when always-reveal is on.
	Hint string
}

// Presenter receives item changes from the engine.
type Presenter interface {
	Show(p Presentation)
	Flash(on bool)
}

type nopPresenter struct{}

func (nopPresenter) Show(Presentation) {}
func (nopPresenter) Flash(bool) {}
