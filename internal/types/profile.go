package types

// ProfileField is one named attribute of a company or instrument.
type ProfileField struct {
	Key   string
	Value string
}

// Profile is an ordered list of descriptive fields for a ticker.
type Profile struct {
	Symbol string
	Fields []ProfileField
}

// Add appends a field. Empty values are ignored.
func (p *Profile) Add(key, value string) {
	if value == "" {
		return
	}

	p.Fields = append(p.Fields, ProfileField{Key: key, Value: value})
}
