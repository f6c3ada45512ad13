package utils

// IsValidProfileName checks if a profile name contains only safe characters.
// Profile names come from the command line and from directory scans, and end
// up in shell command arguments, so only alphanumeric names are accepted.
func IsValidProfileName(name string) bool {
	if name == "" || len(name) > 128 {
		return false
	}
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
