package user

// User is a local profile of the expense tracker. Profiles are switched by the
// mobile client through the X-User-Id header.
type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    Settings
}

// Settings carries per-profile display preferences. Timezone drives calendar
// bucketing of expenses (month totals, weekly series), Currency is display only.
type Settings struct {
	Currency string
	Timezone string
}
