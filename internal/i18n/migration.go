package i18n

// legacyKeys maps the old flat keys to their nested replacements.
var legacyKeys = map[string]string{
	"app-subtitle":          "portal.subtitle",
	"user-app":              "portal.user.title",
	"employee-app":          "portal.employee.title",
	"for-customers":         "portal.user.description",
	"for-service-providers": "portal.employee.description",
	"open-user-app":         "portal.user.action",
	"open-employee-app":     "portal.employee.action",

	"flat-tyre":               "services.flatTyre.title",
	"flat-tyre-desc":          "services.flatTyre.description",
	"out-of-fuel":             "services.outOfFuel.title",
	"out-of-fuel-desc":        "services.outOfFuel.description",
	"car-battery":             "services.carBattery.title",
	"car-battery-desc":        "services.carBattery.description",
	"other-car-problems":      "services.otherCarProblems.title",
	"other-car-problems-desc": "services.otherCarProblems.description",
	"tow-truck":               "services.towTruck.title",
	"tow-truck-desc":          "services.towTruck.description",
	"emergency":               "services.emergency.title",
	"emergency-desc":          "services.emergency.description",
	"support":                 "services.support.title",
	"support-desc":            "services.support.description",

	"settings":              "settings.title",
	"configure-preferences": "settings.description",
	"account":               "settings.tabs.account",
	"history":               "settings.tabs.history",
	"about":                 "settings.tabs.about",

	"emergency-services":   "emergency.title",
	"call-police":          "emergency.callPolice",
	"call-ambulance":       "emergency.callAmbulance",
	"call-fire-department": "emergency.callFireDepartment",

	"cancel":  "ui.actions.cancel",
	"close":   "ui.actions.close",
	"save":    "ui.actions.save",
	"confirm": "ui.actions.confirm",
	"back":    "ui.actions.back",
	"submit":  "ui.actions.submit",
	"loading": "app.loading",
	"error":   "app.error",
	"success": "app.success",
	"warning": "app.warning",
	"info":    "app.info",

	"pending":   "ui.status.pending",
	"accepted":  "ui.status.accepted",
	"declined":  "ui.status.declined",
	"completed": "ui.status.completed",

	"location-access-denied":  "location.accessDenied",
	"location-access-message": "location.accessMessage",
	"location-updated":        "location.updated",

	"switch-to-bulgarian": "language.switchToBulgarian",
	"switch-to-english":   "language.switchToEnglish",
}

// MigrateKey returns the nested key for a legacy flat key, or key itself.
func MigrateKey(key string) string {
	if migrated, ok := legacyKeys[key]; ok {
		return migrated
	}
	return key
}
