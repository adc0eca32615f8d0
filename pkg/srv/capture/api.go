/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// go-mote API
//
// # RESTful APIs to control the go-mote capture server
//
// Terms Of Service:
//
// Schemes: http
// Host: localhost:8803
// Version: 1.0.0
// Contact:
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package capture

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-openapi/loads"
	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/motelab/go-mote/pkg/config"
	"github.com/motelab/go-mote/pkg/log"
	"github.com/motelab/go-mote/pkg/srv"
)

//go:embed swagger.json
var swaggerJSON []byte

// Success response
// swagger:response okResp
type RespOk struct {
	// in:body
	Body struct {
		// HTTP status code 200 - OK
		Code int `json:"code"`
	}
} // Error Bad Request
// swagger:response badReq
type ReqBadRequest struct {
	// in:body
	Body struct {
		// HTTP status code 400 -  Bad Request
		Code int `json:"code"`
	}
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	capture *CaptureServer
}

func NewApiServer(ctx context.Context, cfg *config.Config, capture *CaptureServer) (*ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.ApiHost, cfg.ApiPort)

	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		capture: capture,
	}
	return s, nil
}

// Start
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s port: %d", s.Config.ApiHost, s.Config.ApiPort)
	if err := s.configureRouter(); err != nil {
		return err
	}
	httpServer := &http.Server{
		Handler: handlers.LoggingHandler(log.Writer(), s.Router),
		Addr:    fmt.Sprintf("%s:%d", s.Config.ApiHost, s.Config.ApiPort),
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() error {
	doc, err := loads.Analyzed(json.RawMessage(swaggerJSON), "2.0")
	if err != nil {
		return err
	}

	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	// swagger:operation GET /status status
	// ---
	// summary: session status
	// description: phase, channel and counters of the running session
	// responses:
	//   "200":
	//     "$ref": "#/responses/okResp"
	subRouter.HandleFunc("/status", s.handleStatus()).Methods("GET")
	// swagger:operation GET /channel/{channel} set channel
	// ---
	// summary: restart the session on another radio channel
	// description: --
	// responses:
	//   "200":
	//     "$ref": "#/responses/okResp"
	//   "400":
	//     "$ref": "#/responses/badReq"
	subRouter.HandleFunc("/channel/{channel:[0-9]+}", s.handleSetChannel()).Methods("GET")
	// swagger:operation GET /stop stop
	// ---
	// summary: stop the board and shut the server down
	// description: --
	// responses:
	//   "200":
	//     "$ref": "#/responses/okResp"
	//   "409":
	//     "$ref": "#/responses/badReq"
	subRouter.HandleFunc("/stop", s.handleStop()).Methods("GET")
	subRouter.HandleFunc("/swagger.json", s.handleSwagger(doc)).Methods("GET")
	s.Router.PathPrefix("/docs").Handler(middleware.Redoc(middleware.RedocOpts{
		BasePath: "/",
		Path:     "docs",
		SpecURL:  "/api/swagger.json",
	}, http.NotFoundHandler()))
	return nil
}

func (s *ApiServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling status request")
		json.NewEncoder(w).Encode(s.capture.Status())
	}
}

func (s *ApiServer) handleSetChannel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling channel change request: channel: %s", vars["channel"])

		channel, err := strconv.Atoi(vars["channel"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.capture.SetChannel(channel); err != nil {
			switch err.(type) {
			case srv.ErrBusy:
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}
	}
}

func (s *ApiServer) handleStop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling stop request")
		if err := s.capture.Stop(); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
	}
}

func (s *ApiServer) handleSwagger(doc *loads.Document) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(doc.Raw())
	}
}
