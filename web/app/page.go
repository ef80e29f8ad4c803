package app

import "github.com/JaimeStill/promptbase/internal/library"

// libraryPage is the view model for the single library page.
type libraryPage struct {
	Feed   library.Feed
	Notice string
	Error  string

	Create      library.Form
	CreateError string
	CreateField string

	Editing   int64
	Edit      library.Form
	EditError string

	Fill    library.Fill
	missing map[string]bool
}

// Expanded reports whether the item should render open.
func (p *libraryPage) Expanded(id int64) bool {
	return id == p.Editing || id == p.Fill.PromptID
}

// EditForm returns the edit form values for item: the rejected submission
// when the item is being edited, otherwise its stored values.
func (p *libraryPage) EditForm(item library.Item) library.Form {
	if item.ID == p.Editing {
		return p.Edit
	}
	return library.FormOf(item.Prompt)
}

// FillValue returns the last submitted value of a placeholder for item.
func (p *libraryPage) FillValue(id int64, name string) string {
	if id != p.Fill.PromptID {
		return ""
	}
	return p.Fill.Values[name]
}

// IsMissing reports whether a placeholder of item was left blank on the last fill.
func (p *libraryPage) IsMissing(id int64, name string) bool {
	if id != p.Fill.PromptID {
		return false
	}
	if p.missing == nil {
		p.missing = make(map[string]bool, len(p.Fill.Missing))
		for _, n := range p.Fill.Missing {
			p.missing[n] = true
		}
	}
	return p.missing[name]
}
