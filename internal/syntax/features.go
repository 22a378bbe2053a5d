package syntax

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Features selects which grammar flavors the parser accepts. The C flavor
// is always on.
type Features struct {
	StructuralInterfaces bool // interface declarations
	ClassTemplates       bool // classes, template <typename T> prefixes and new
	TemplateStrings      bool // `text ${expr}` literals
}

// AllFeatures returns a Features value with every flavor enabled.
func AllFeatures() Features {
	return Features{StructuralInterfaces: true, ClassTemplates: true, TemplateStrings: true}
}

// LatestEdition is the newest language edition.
const LatestEdition = "1.3"

// editions lists what each language edition adds, oldest first.
var editions = []struct {
	constraint string
	enable     func(*Features)
}{
	{">= 1.1", func(f *Features) { f.ClassTemplates = true }},
	{">= 1.2", func(f *Features) { f.StructuralInterfaces = true }},
	{">= 1.3", func(f *Features) { f.TemplateStrings = true }},
}

// FeaturesForEdition returns the grammar features of a language edition
// such as "1.2". Edition 1.0 is the C flavor alone.
func FeaturesForEdition(edition string) (Features, error) {
	v, err := semver.NewVersion(edition)
	if err != nil {
		return Features{}, fmt.Errorf("invalid edition %q: %w", edition, err)
	}
	supported, err := semver.NewConstraint(">= 1.0, < 2.0")
	if err != nil {
		return Features{}, err
	}
	if !supported.Check(v) {
		return Features{}, fmt.Errorf("unsupported edition %s (supported: 1.0 to %s)", v, LatestEdition)
	}

	var f Features
	for _, e := range editions {
		c, err := semver.NewConstraint(e.constraint)
		if err != nil {
			return Features{}, err
		}
		if c.Check(v) {
			e.enable(&f)
		}
	}
	return f, nil
}

func (f Features) String() string {
	return fmt.Sprintf("interfaces=%t classes=%t template-strings=%t",
		f.StructuralInterfaces, f.ClassTemplates, f.TemplateStrings)
}
