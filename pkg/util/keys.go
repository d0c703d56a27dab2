package util

// MemberKey builds the composite map key for per-(guild,user) state.
func MemberKey(guildID, userID string) string {
	return guildID + ":" + userID
}
