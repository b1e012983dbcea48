package httphandler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"DoshiiWithPos/internal/controller"
	"DoshiiWithPos/internal/doshiiapi/models"
	"DoshiiWithPos/internal/version"
	"DoshiiWithPos/pkg/logging"
)

// Handlers exposes the small admin surface of the service binary.
type Handlers struct {
	Controller *controller.DoshiiController
}

func (h *Handlers) HandlerVersion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := logging.GetLogger()

	v := version.GetVersion()
	_, err := fmt.Fprintf(w, "Version %s", v.String())
	if err != nil {
		logger.Errorf("failed to send response, error: %v", err)
	}
}

type orderAheadRequest struct {
	DoshiiId string `json:"doshiiId"`
	Version  string `json:"version"`
	Accept   bool   `json:"accept"`
}

// HandlerOrderAheadDecision lets a venue operator accept or reject an
// order-ahead order through the admin surface.
func (h *Handlers) HandlerOrderAheadDecision(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := logging.GetLogger()
	logger.Info("Start HandlerOrderAheadDecision")
	defer logger.Info("End HandlerOrderAheadDecision")

	var req orderAheadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Errorf("failed to decode order ahead request, error: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	order := &models.Order{DoshiiId: req.DoshiiId, Version: req.Version}

	if req.Accept {
		accepted, err := h.Controller.AcceptOrderAheadCreation(order)
		if err != nil {
			logger.Errorf("failed in AcceptOrderAheadCreation(), error: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !accepted {
			http.Error(w, "accept refused, order version is stale", http.StatusConflict)
			return
		}
		fmt.Fprint(w, "accepted")
		return
	}

	if err := h.Controller.RejectOrderAheadCreation(order); err != nil {
		logger.Errorf("failed in RejectOrderAheadCreation(), error: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	fmt.Fprint(w, "rejected")
}
