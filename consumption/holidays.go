package consumption

import (
	"time"

	"github.com/rickar/cal/v2"
)

// Turkish national holidays with fixed Gregorian dates. The religious
// holidays (Ramazan and Kurban Bayrami) follow the lunar calendar and are
// not modeled.
var (
	NewYearsDay = &cal.Holiday{
		Name:  "Yilbasi",
		Type:  cal.ObservancePublic,
		Month: time.January,
		Day:   1,
		Func:  cal.CalcDayOfMonth,
	}

	NationalSovereigntyDay = &cal.Holiday{
		Name:  "Ulusal Egemenlik ve Cocuk Bayrami",
		Type:  cal.ObservancePublic,
		Month: time.April,
		Day:   23,
		Func:  cal.CalcDayOfMonth,
	}

	LabourDay = &cal.Holiday{
		Name:  "Emek ve Dayanisma Gunu",
		Type:  cal.ObservancePublic,
		Month: time.May,
		Day:   1,
		Func:  cal.CalcDayOfMonth,
	}

	YouthAndSportsDay = &cal.Holiday{
		Name:  "Ataturk'u Anma, Genclik ve Spor Bayrami",
		Type:  cal.ObservancePublic,
		Month: time.May,
		Day:   19,
		Func:  cal.CalcDayOfMonth,
	}

	DemocracyDay = &cal.Holiday{
		Name:      "Demokrasi ve Milli Birlik Gunu",
		Type:      cal.ObservancePublic,
		StartYear: 2017,
		Month:     time.July,
		Day:       15,
		Func:      cal.CalcDayOfMonth,
	}

	VictoryDay = &cal.Holiday{
		Name:  "Zafer Bayrami",
		Type:  cal.ObservancePublic,
		Month: time.August,
		Day:   30,
		Func:  cal.CalcDayOfMonth,
	}

	RepublicDay = &cal.Holiday{
		Name:  "Cumhuriyet Bayrami",
		Type:  cal.ObservancePublic,
		Month: time.October,
		Day:   29,
		Func:  cal.CalcDayOfMonth,
	}

	// TurkishHolidays collects the fixed-date national holidays.
	TurkishHolidays = []*cal.Holiday{
		NewYearsDay,
		NationalSovereigntyDay,
		LabourDay,
		YouthAndSportsDay,
		DemocracyDay,
		VictoryDay,
		RepublicDay,
	}
)

// TurkishCalendar returns a business calendar carrying the Turkish national
// holidays, for use with Options.Calendar.
func TurkishCalendar() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(TurkishHolidays...)
	return c
}
