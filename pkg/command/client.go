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

package command

import (
	"errors"
	"fmt"
	"github.com/imroc/req"
	"github.com/motelab/go-mote/pkg/config"
	"github.com/motelab/go-mote/pkg/srv/capture"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.ApiHost, cfg.ApiPort),
	}
}

// Status sends request to get the state of the current capture session
func (c *ApiClient) Status() (*capture.SessionStatus, error) {
	r, err := req.Get(fmt.Sprintf("%s/status", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	status := &capture.SessionStatus{}
	err = r.ToJSON(status)
	if err != nil {
		return nil, err
	}
	return status, nil
}

// SetChannel sends request to retune the sniffer to another channel
func (c *ApiClient) SetChannel(channel int) error {
	r, err := req.Get(fmt.Sprintf("%s/channel/%d", c.ApiPrefix, channel))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Stop sends request to end the capture session
func (c *ApiClient) Stop() error {
	r, err := req.Get(fmt.Sprintf("%s/stop", c.ApiPrefix))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}
