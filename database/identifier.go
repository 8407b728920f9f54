package database

// IsValidIdentifier reports whether name can be spliced into SQL as a table name:
// ASCII letters, digits and underscores, not starting with a digit, at most 63 bytes.
func IsValidIdentifier(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for _, char := range name {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '_') {
			return false
		}
	}
	return name[0] < '0' || name[0] > '9'
}
