package model

const (
	DefaultDriverCompensationPercent    = 100
	DefaultPassengerCompensationPercent = 90
	DefaultWorkHours                    = 8
)

// UserSettings are the personal compensation settings stored in the config file.
type UserSettings struct {
	DriverCompensationPercent    float64  `json:"driver_compensation_percent" env:"WORKTIME_DRIVER_PERCENT"`
	PassengerCompensationPercent float64  `json:"passenger_compensation_percent" env:"WORKTIME_PASSENGER_PERCENT"`
	DefaultWorkHours             float64  `json:"default_work_hours" env:"WORKTIME_DEFAULT_WORK_HOURS"`
	ExpectedMonthlyHours         *float64 `json:"expected_monthly_hours,omitempty"`
}

// DefaultUserSettings returns the built-in personal settings.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		DriverCompensationPercent:    DefaultDriverCompensationPercent,
		PassengerCompensationPercent: DefaultPassengerCompensationPercent,
		DefaultWorkHours:             DefaultWorkHours,
	}
}

// TeamOverrides are values imposed by a team. Nil fields leave the personal
// value in place.
type TeamOverrides struct {
	Team                         string   `yaml:"team"`
	DriverCompensationPercent    *float64 `yaml:"driver_compensation_percent"`
	PassengerCompensationPercent *float64 `yaml:"passenger_compensation_percent"`
	DefaultWorkHours             *float64 `yaml:"default_work_hours"`
	ExpectedMonthlyHours         *float64 `yaml:"expected_monthly_hours"`
}

// EffectiveSettings is the merged personal and team configuration passed into
// every calculation. It is a plain value; calculations never resolve it themselves.
type EffectiveSettings struct {
	DriverCompensationPercent    float64
	PassengerCompensationPercent float64
	DefaultWorkHours             float64
	ExpectedMonthlyHours         *float64
}

// Merge resolves the effective settings. team may be nil.
func Merge(personal UserSettings, team *TeamOverrides) EffectiveSettings {
	eff := EffectiveSettings{
		DriverCompensationPercent:    personal.DriverCompensationPercent,
		PassengerCompensationPercent: personal.PassengerCompensationPercent,
		DefaultWorkHours:             personal.DefaultWorkHours,
		ExpectedMonthlyHours:         copyFloat(personal.ExpectedMonthlyHours),
	}
	if team == nil {
		return eff
	}
	if team.DriverCompensationPercent != nil {
		eff.DriverCompensationPercent = *team.DriverCompensationPercent
	}
	if team.PassengerCompensationPercent != nil {
		eff.PassengerCompensationPercent = *team.PassengerCompensationPercent
	}
	if team.DefaultWorkHours != nil {
		eff.DefaultWorkHours = *team.DefaultWorkHours
	}
	if team.ExpectedMonthlyHours != nil {
		eff.ExpectedMonthlyHours = copyFloat(team.ExpectedMonthlyHours)
	}
	return eff
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
