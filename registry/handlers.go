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
	"strconv"

	"github.com/gin-gonic/gin"
	provide "github.com/provideplatform/provide-go/common"

	"github.com/provideplatform/reputation/common"
	"github.com/provideplatform/reputation/status"
)

// InstallAPI registers the reputation API handlers with gin
func InstallAPI(r *gin.Engine, store *Store) {
	srv := &api{store: store}

	r.GET("/:role", srv.listNodesHandler)
	r.GET("/:role/:node/agreement", srv.listAgreementsHandler)
	r.GET("/:role/:node/agreement/:agreementId", srv.agreementDetailsHandler)
	r.POST("/:role/:node/agreement/:agreementId", srv.registerAgreementHandler)
	r.POST("/:role/:node/agreement/:agreementId/status", srv.reportStatusHandler)

	r.GET("/standard_score/:role/:node", srv.standardScoreHandler)
}

type api struct {
	store *Store
}

// list node identifiers that have reported under the role
func (a *api) listNodesHandler(c *gin.Context) {
	role, err := status.ParseRole(c.Param("role"))
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}

	nodes, err := a.store.ListNodes(role)
	if err != nil {
		common.Log.Warningf("failed to list %s nodes; %s", role, err.Error())
		provide.RenderError("internal persistence error", 500, c)
		return
	}
	provide.Render(nodes, 200, c)
}

// list agreements reported by the node, including agreements whose detail
// metadata was never registered
func (a *api) listAgreementsHandler(c *gin.Context) {
	role, err := status.ParseRole(c.Param("role"))
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}

	limit := 0
	if c.Query("limit") != "" {
		limit, err = strconv.Atoi(c.Query("limit"))
		if err != nil || limit < 0 {
			provide.RenderError("limit must be a non-negative integer", 400, c)
			return
		}
	}

	agreements, err := a.store.ListAgreements(role, c.Param("node"), limit)
	if err != nil {
		common.Log.Warningf("failed to list agreements for %s/%s; %s", role, c.Param("node"), err.Error())
		provide.RenderError("internal persistence error", 500, c)
		return
	}
	provide.Render(agreements, 200, c)
}

// fetch agreement details
func (a *api) agreementDetailsHandler(c *gin.Context) {
	role, err := status.ParseRole(c.Param("role"))
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}

	detail, err := a.store.GetDetail(role, c.Param("node"), c.Param("agreementId"))
	if err != nil {
		common.Log.Warningf("failed to resolve agreement %s; %s", c.Param("agreementId"), err.Error())
		provide.RenderError("internal persistence error", 500, c)
		return
	}
	if detail == nil {
		provide.RenderError("agreement not found", 404, c)
		return
	}
	provide.Render(detail, 200, c)
}

// register agreement details; at most one registration takes effect per
// agreement key, duplicates are ignored
func (a *api) registerAgreementHandler(c *gin.Context) {
	role, err := status.ParseRole(c.Param("role"))
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}

	buf, err := c.GetRawData()
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}

	detail := &status.AgreementDetail{}
	if err := json.Unmarshal(buf, detail); err != nil {
		provide.RenderError(err.Error(), 422, c)
		return
	}
	detail.Normalize()
	if err := detail.Validate(); err != nil {
		provide.RenderError(err.Error(), 422, c)
		return
	}

	inserted, err := a.store.UpsertDetail(role, c.Param("node"), c.Param("agreementId"), detail)
	if err != nil {
		common.Log.Warningf("failed to register agreement %s; %s", c.Param("agreementId"), err.Error())
		provide.RenderError("internal persistence error", 500, c)
		return
	}
	if !inserted {
		common.Log.Debugf("ignored duplicate detail registration for agreement: %s", c.Param("agreementId"))
	}
	c.Status(200)
}

// record a status report; an unknown agreement is a defined happy-path
// outcome, never an error
func (a *api) reportStatusHandler(c *gin.Context) {
	role, err := status.ParseRole(c.Param("role"))
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}

	buf, err := c.GetRawData()
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}

	st := &status.Status{}
	if err := json.Unmarshal(buf, st); err != nil {
		provide.RenderError(err.Error(), 422, c)
		return
	}
	st.Normalize()

	result, err := a.store.Report(c.Request.Context(), role, c.Param("node"), c.Param("agreementId"), st)
	if err != nil {
		common.Log.Warningf("failed to record status for %s/%s/%s; %s", role, c.Param("node"), c.Param("agreementId"), err.Error())
		provide.RenderError("internal persistence error", 500, c)
		return
	}
	provide.Render(result, 200, c)
}

// fetch the externally computed aggregate trust score for the node
func (a *api) standardScoreHandler(c *gin.Context) {
	role, err := status.ParseRole(c.Param("role"))
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}

	score, err := a.store.StandardScore(role, c.Param("node"))
	if err != nil {
		common.Log.Warningf("failed to resolve standard score for %s/%s; %s", role, c.Param("node"), err.Error())
		provide.RenderError("internal persistence error", 500, c)
		return
	}
	provide.Render(&StandardScore{Score: score}, 200, c)
}
