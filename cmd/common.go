/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/13anudhan2005-netizen/language-translator/internal/detector"
	"github.com/13anudhan2005-netizen/language-translator/internal/dispatcher"
	"github.com/13anudhan2005-netizen/language-translator/internal/session"
	"github.com/13anudhan2005-netizen/language-translator/internal/speech"
	"github.com/13anudhan2005-netizen/language-translator/internal/store"
	"github.com/13anudhan2005-netizen/language-translator/internal/translator"
)

// buildServices constructs the backend chain in configured order.
func buildServices(descriptors []translator.ServiceConfig) ([]translator.Service, error) {
	var list []translator.Service
	for i, d := range descriptors {
		svc, err := translator.New(d)
		if err != nil {
			return nil, fmt.Errorf("backends[%d]: %w", i, err)
		}
		list = append(list, svc)
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("no valid services configured")
	}
	return list, nil
}

func buildDispatcher() (*dispatcher.Dispatcher, error) {
	services, err := buildServices(cfg.Backends)
	if err != nil {
		return nil, err
	}
	return dispatcher.New(services, detector.New(), dispatcher.Config{
		Timeout:       cfg.Dispatcher.Timeout,
		DefaultSource: cfg.Dispatcher.DefaultSource,
	}, logger.Named("dispatcher"))
}

func buildSynthesizer() speech.Synthesizer {
	if !cfg.Speech.Enabled {
		return nil
	}
	return speech.NewGoogleTTS(cfg.Speech.Endpoint, cfg.Speech.Timeout)
}

// buildWorkflow wires the dispatcher, an in-memory history store and speech
// into a session service. The returned close func releases the store.
func buildWorkflow() (*session.Service, *dispatcher.Dispatcher, func() error, error) {
	d, err := buildDispatcher()
	if err != nil {
		return nil, nil, nil, err
	}
	history, err := store.New("")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open history store: %w", err)
	}
	svc := session.NewService(d, history, buildSynthesizer(), session.Config{
		DisplayLimit: cfg.History.DisplayLimit,
		MaxEntries:   cfg.History.MaxEntries,
	}, logger.Named("session"))
	return svc, d, history.Close, nil
}
