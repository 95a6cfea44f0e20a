package settings

// Setting keys form a closed set, rows are seeded by migration and only their
// values change at runtime.
const (
	KeyIOSAppLink     = "IosAppLink"
	KeyAndroidAppLink = "AndroidAppLink"

	KeyFacebookLink  = "FacebookLink"
	KeyTwitterLink   = "TwitterLink"
	KeyInstagramLink = "InstagramLink"
	KeyLinkedInLink  = "LinkedInLink"
	KeyYoutubeLink   = "YoutubeLink"

	KeyEmail   = "Email"
	KeyPhone   = "Phone"
	KeyAddress = "Address"

	KeySlogan      = "Slogan"
	KeyDescription = "Description"
	KeyAboutUs     = "AboutUs"
)

// Setting categories.
const (
	CategoryAppDownload = "AppDownload"
	CategorySocialMedia = "SocialMedia"
	CategoryContact     = "Contact"
	CategoryGeneral     = "General"
)

var knownKeys = map[string]struct{}{
	KeyIOSAppLink:     {},
	KeyAndroidAppLink: {},
	KeyFacebookLink:   {},
	KeyTwitterLink:    {},
	KeyInstagramLink:  {},
	KeyLinkedInLink:   {},
	KeyYoutubeLink:    {},
	KeyEmail:          {},
	KeyPhone:          {},
	KeyAddress:        {},
	KeySlogan:         {},
	KeyDescription:    {},
	KeyAboutUs:        {},
}

// IsKnownKey reports whether key belongs to the closed setting key set.
func IsKnownKey(key string) bool {
	_, ok := knownKeys[key]
	return ok
}
