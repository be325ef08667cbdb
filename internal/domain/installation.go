package domain

// InstallationOption описывает вариант монтажа, предлагаемый при покупке
type InstallationOption struct {
	ID          string
	Name        string
	Description string
	Price       int64 // в центах
}

var installationOptions = []InstallationOption{
	{ID: "standard", Name: "Standard Installation", Description: "Basic installation with essential components and setup", Price: 14999},
	{ID: "premium", Name: "Premium Installation", Description: "Enhanced installation with additional copper piping and premium mounting", Price: 24999},
	{ID: "professional", Name: "Professional Installation", Description: "Complete solution including electrical work, premium materials, and extended warranty", Price: 34999},
}

// InstallationOptions возвращает копию статического каталога вариантов монтажа.
func InstallationOptions() []InstallationOption {
	res := make([]InstallationOption, len(installationOptions))
	copy(res, installationOptions)
	return res
}

func FindInstallationOption(id string) (InstallationOption, bool) {
	for _, opt := range installationOptions {
		if opt.ID == id {
			return opt, true
		}
	}
	return InstallationOption{}, false
}
