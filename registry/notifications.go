/*
 * Copyright 2017-2022 Provide Technologies Inc.
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

package registry

import (
	"encoding/json"
	"fmt"
	"time"

	natsutil "github.com/kthomas/go-natsutil"
	"github.com/nats-io/nats.go"

	"github.com/provideplatform/reputation/common"
	"github.com/provideplatform/reputation/status"
)

const defaultNatsStream = "reputation"
const natsStatusReportedSubject = "reputation.status.reported"

func init() {
	if !common.DispatchNATSNotifications {
		common.Log.Debug("registry package configured to skip NATS notification dispatch")
		return
	}

	natsutil.EstablishSharedNatsConnection(nil)
	natsutil.NatsCreateStream(defaultNatsStream, []string{
		fmt.Sprintf("%s.>", defaultNatsStream),
	})
}

// dispatchStatusNotification broadcasts an accepted status report event
func dispatchStatusNotification(role status.Role, nodeID, agreementID string) (*nats.PubAck, error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"role":         role.String(),
		"node_id":      nodeID,
		"agreement_id": agreementID,
		"reported_at":  time.Now().UTC(),
	})

	ack, err := natsutil.NatsJetstreamPublish(natsStatusReportedSubject, payload)
	if err != nil {
		common.Log.Warningf("failed to dispatch status notification for agreement %s; %s", agreementID, err.Error())
		return nil, err
	}
	return ack, nil
}
