package model

import "time"

// Profile is the persisted unit of estimation: one respondent's answer
// sets plus the concatenated outputs of the last estimator run. Baselines
// and estimations are rebuilt in full on every re-estimation; scores are
// computed on read and never stored.
type Profile struct {
	ID        string `json:"id"`
	Estimated bool   `json:"estimated"`

	MobilityAnswer *MobilityAnswer `json:"mobilityAnswer,omitempty"`
	HousingAnswer  *HousingAnswer  `json:"housingAnswer,omitempty"`
	FoodAnswer     *FoodAnswer     `json:"foodAnswer,omitempty"`
	OtherAnswer    *OtherAnswer    `json:"otherAnswer,omitempty"`

	Baselines   []EmissionItem `json:"baselines"`
	Estimations []EmissionItem `json:"estimations"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
