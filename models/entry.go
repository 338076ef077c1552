// File: models/entry.go
package models

import "time"

// DayEntry holds the forms a user submitted on one calendar day, keyed by
// DateString (YYYY-MM-DD in the operating timezone).
type DayEntry struct {
	UserID     string        `firestore:"-" bson:"userId" json:"userId"`
	DateString string        `firestore:"dateString" bson:"dateString" json:"dateString"`
	Morning    *MorningEntry `firestore:"morning,omitempty" bson:"morning,omitempty" json:"morning,omitempty"`
	Noon       *NoonEntry    `firestore:"noon,omitempty" bson:"noon,omitempty" json:"noon,omitempty"`
	Evening    *EveningEntry `firestore:"evening,omitempty" bson:"evening,omitempty" json:"evening,omitempty"`
	CreatedAt  time.Time     `firestore:"createdAt,omitempty" bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt  time.Time     `firestore:"updatedAt,omitempty" bson:"updatedAt,omitempty" json:"updatedAt"`
}

// Has reports whether the form slot was submitted. Only presence counts.
func (e *DayEntry) Has(form FormType) bool {
	if e == nil {
		return false
	}
	switch form {
	case FormMorning:
		return e.Morning != nil
	case FormNoon:
		return e.Noon != nil
	case FormEvening:
		return e.Evening != nil
	}
	return false
}

type MorningEntry struct {
	HoursSlept      float64   `firestore:"hoursSlept" bson:"hoursSlept" json:"hoursSlept"`
	SleepQuality    string    `firestore:"sleepQuality" bson:"sleepQuality" json:"sleepQuality"`
	NightAwakenings int       `firestore:"nightAwakenings" bson:"nightAwakenings" json:"nightAwakenings"`
	Dinner          string    `firestore:"dinner" bson:"dinner" json:"dinner"`
	WakeSleepiness  string    `firestore:"wakeSleepiness" bson:"wakeSleepiness" json:"wakeSleepiness"`
	Observations    string    `firestore:"observations" bson:"observations" json:"observations"`
	SubmittedAt     time.Time `firestore:"submittedAt" bson:"submittedAt" json:"submittedAt"`
}

type NoonEntry struct {
	MorningSleepiness string    `firestore:"morningSleepiness" bson:"morningSleepiness" json:"morningSleepiness"`
	SleepinessTime    *string   `firestore:"sleepinessTime" bson:"sleepinessTime" json:"sleepinessTime"`
	Slept             bool      `firestore:"slept" bson:"slept" json:"slept"`
	Sunlight          bool      `firestore:"sunlight" bson:"sunlight" json:"sunlight"`
	Breakfast         string    `firestore:"breakfast" bson:"breakfast" json:"breakfast"`
	Coffee            bool      `firestore:"coffee" bson:"coffee" json:"coffee"`
	Sweets            bool      `firestore:"sweets" bson:"sweets" json:"sweets"`
	Exercise          bool      `firestore:"exercise" bson:"exercise" json:"exercise"`
	Observations      string    `firestore:"observations" bson:"observations" json:"observations"`
	Focus             string    `firestore:"focus" bson:"focus" json:"focus"`
	Stress            string    `firestore:"stress" bson:"stress" json:"stress"`
	Anxiety           string    `firestore:"anxiety" bson:"anxiety" json:"anxiety"`
	SubmittedAt       time.Time `firestore:"submittedAt" bson:"submittedAt" json:"submittedAt"`
}

type EveningEntry struct {
	AfternoonSleepiness string    `firestore:"afternoonSleepiness" bson:"afternoonSleepiness" json:"afternoonSleepiness"`
	SleepinessTime      *string   `firestore:"sleepinessTime" bson:"sleepinessTime" json:"sleepinessTime"`
	Slept               bool      `firestore:"slept" bson:"slept" json:"slept"`
	Lunch               string    `firestore:"lunch" bson:"lunch" json:"lunch"`
	Coffee              bool      `firestore:"coffee" bson:"coffee" json:"coffee"`
	Sweets              bool      `firestore:"sweets" bson:"sweets" json:"sweets"`
	Exercise            bool      `firestore:"exercise" bson:"exercise" json:"exercise"`
	Observations        string    `firestore:"observations" bson:"observations" json:"observations"`
	Focus               string    `firestore:"focus" bson:"focus" json:"focus"`
	Stress              string    `firestore:"stress" bson:"stress" json:"stress"`
	Anxiety             string    `firestore:"anxiety" bson:"anxiety" json:"anxiety"`
	SubmittedAt         time.Time `firestore:"submittedAt" bson:"submittedAt" json:"submittedAt"`
}
