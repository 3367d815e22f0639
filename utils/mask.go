package utils

import "strings"

// MaskEmail hides most of the local part and the first domain label, e.g.
// "alice@example.com" -> "a***e@e******.com". Anything that is not a single
// "@"-separated address is returned unchanged.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	local, domain := parts[0], parts[1]

	switch {
	case len(local) > 2:
		local = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	case len(local) == 2:
		local = local[:1] + "*"
	}

	labels := strings.Split(domain, ".")
	if len(labels) >= 2 && len(labels[0]) > 1 {
		labels[0] = labels[0][:1] + strings.Repeat("*", len(labels[0])-1)
	}
	return local + "@" + strings.Join(labels, ".")
}
