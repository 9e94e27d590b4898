package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type UnitRequest struct {
	Name    string `form:"name"`
	SubCamp string `form:"sottocampo"`
}

func (req *UnitRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.SubCamp, validation.Required, validation.Length(1, 100)),
	)
}

type PatrolRequest struct {
	Name   string `form:"name"`
	Leader string `form:"capo_pattuglia"`
	UnitID uint   `form:"unit_id"`
}

func (req *PatrolRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Leader, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.UnitID, validation.Required),
	)
}

type ChallengeRequest struct {
	Name         string `form:"name"`
	Description  string `form:"description"`
	Points       int    `form:"points"`
	RewardTokens int    `form:"reward_tokens"`
	IsFungo      bool   `form:"is_fungo"`
	Retroactive  bool   `form:"retroactive"`
}

func (req *ChallengeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Points, validation.Min(-1000), validation.Max(1000)),
		validation.Field(&req.RewardTokens, validation.Min(0)),
	)
}

type CompleteRequest struct {
	PatrolID    uint `form:"pattuglia_id"`
	ChallengeID uint `form:"challenge_id"`
}

func (req *CompleteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PatrolID, validation.Required),
		validation.Field(&req.ChallengeID, validation.Required),
	)
}
