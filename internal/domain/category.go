package domain

// Categories is the fixed vocabulary tickets may be tagged with.
var Categories = map[string]struct{}{
	"Frontend": {}, "React": {}, "HTML/CSS": {}, "Javascript/TypeScript": {},
	"Backend": {}, "Python": {}, "Java": {}, "C++": {}, "C#": {}, "Go": {},
	"Ideation": {}, "Swift": {}, "Kotlin": {}, "Database": {}, "SQL": {},
	"Pitching": {}, "Cloud": {}, "CI/CD": {}, "Hardware": {}, "Mobile": {},
	"AI/ML": {}, "Web3": {}, "Cybersecurity": {}, "Git": {}, "Other": {},
}

// ValidCategory reports whether the tag belongs to the vocabulary.
func ValidCategory(tag string) bool {
	_, ok := Categories[tag]
	return ok
}

// FilterCategories drops tags outside the vocabulary and duplicates,
// preserving input order. Unknown tags are dropped silently rather than
// rejected; that is the intended intake policy.
func FilterCategories(tags []string) []string {
	filtered := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if !ValidCategory(tag) {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		filtered = append(filtered, tag)
	}
	return filtered
}
