package builder

// Items accumulates the files written during one build, by category. Entries
// are bare file names (assets keep their path under public/), which is the
// shape the wire format exposes.
type Items struct {
	Pages      []string `json:"pages"`
	Components []string `json:"components"`
	Configs    []string `json:"configs"`
	Assets     []string `json:"assets"`
}

// NewItems returns an Items whose slices marshal as [] rather than null.
func NewItems() Items {
	return Items{
		Pages:      []string{},
		Components: []string{},
		Configs:    []string{},
		Assets:     []string{},
	}
}

// Merge returns it with other's entries appended per category.
func (it Items) Merge(other Items) Items {
	it.Pages = append(it.Pages, other.Pages...)
	it.Components = append(it.Components, other.Components...)
	it.Configs = append(it.Configs, other.Configs...)
	it.Assets = append(it.Assets, other.Assets...)
	return it
}

// Total counts every recorded file.
func (it Items) Total() int {
	return len(it.Pages) + len(it.Components) + len(it.Configs) + len(it.Assets)
}
