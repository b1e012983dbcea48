package models

type App struct {
	Id    string   `json:"id,omitempty"`
	Name  string   `json:"name,omitempty"`
	Ref   string   `json:"ref,omitempty"`
	Types []string `json:"types,omitempty"`
}
