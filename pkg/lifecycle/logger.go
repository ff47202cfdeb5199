/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lifecycle

import (
	"context"
	"fmt"

	"github.com/lumatek/netwalk/pkg/logger"
)

// InitializeLogger initializes the package-level logger singleton with the
// provided configuration. If config is nil, it uses the default
// configuration. Every component in this repository logs through that
// singleton (pkg/logger's Info/Warn/Error/Debug accessors), so this is the
// only logger bootstrapping cmd/netwalk needs.
func InitializeLogger(config *logger.Config) error {
	if config == nil {
		config = logger.DefaultConfig()
	}

	if err := logger.Init(context.Background(), config); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}
