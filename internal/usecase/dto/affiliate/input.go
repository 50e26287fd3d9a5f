package affiliatedto

type RegisterAffiliateInput struct {
	UserID            string
	SponsorReferral   string
	PreferredUsername string
}

type RegisterAffiliateOutput struct {
	AffiliateID  string
	ReferralCode string
	SponsorID    string
}
