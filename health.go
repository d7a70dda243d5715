package eurailnet

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status      string `json:"status"`
	Cities      int    `json:"cities"`
	Trains      int    `json:"trains"`
	Connections int    `json:"connections"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:      "ok",
		Cities:      len(a.Network.Cities()),
		Trains:      len(a.Network.Trains()),
		Connections: len(a.Network.Connections()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}
