package models

type Member struct {
	Id      string   `json:"id,omitempty"`
	Name    string   `json:"name,omitempty"`
	Email   string   `json:"email,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Ref     string   `json:"ref,omitempty"`
	Points  int      `json:"points,omitempty"`
	App     string   `json:"app,omitempty"`
	Address *Address `json:"address,omitempty"`
	Uri     string   `json:"uri,omitempty"`
}

type Reward struct {
	Id             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	Description    string `json:"description,omitempty"`
	SurcountType   string `json:"surcountType,omitempty"`
	SurcountAmount int64  `json:"surcountAmount,omitempty"`
	Uri            string `json:"uri,omitempty"`
}

type PointsRedemption struct {
	Points                int `json:"points,omitempty"`
	RewardPointsPerDollar int `json:"rewardPointsPerDollar,omitempty"`
}
