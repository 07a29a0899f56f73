package storage

// AllowedRoutesKey holds the JSON array of routes the signed-in user may edit.
const AllowedRoutesKey = "allowed_routes"

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
