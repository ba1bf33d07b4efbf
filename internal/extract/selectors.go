package extract

// Selectors for the registry's business profile layout.
const (
	sidebar = "#content > div.page-vertical-padding.bpr-about-body > div > div.with-sidebar > div.sidebar.stack"

	BusinessNameSelector = "#businessName"

	AccreditationContainerSelector = sidebar + " > div:nth-child(5)"
	AccreditationHeadingSelector   = "#accreditation > h3"

	addressBlock         = sidebar + " > div.bpr-overview-card.container > div > div.bpr-overview-address"
	AddressLine1Selector = addressBlock + " > p:nth-child(1)"
	AddressLine2Selector = addressBlock + " > p:nth-child(2)"

	// The reviews view drops the bpr-about-body class from the padding wrapper.
	ReviewScoreSelector         = "#content > div.page-vertical-padding > div > div.with-sidebar > div.sidebar.stack > div:nth-child(1) > div > span"
	ReviewScoreFallbackSelector = "span.bds-body.text-size-70"

	NavLinkSelector = "#content > div.bpr-nav > div > nav > ul > li a"
)

// AccreditedMarker appears in the accreditation heading of accredited businesses.
const AccreditedMarker = "is BBB Accredited"

const reviewsLinkText = "reviews"
