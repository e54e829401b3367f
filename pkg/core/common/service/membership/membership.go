/*
Copyright 2024 The CTrack Authors.

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

package membership

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/types"
)

// Role returns the user's role in the project. found is false when the user
// is not a member at all.
func Role(ctx context.Context, projectID, userID string) (role types.Role, found bool, err error) {
	m, err := mongodb.NewProjectMembershipColl().Get(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "get project membership")
	}
	return m.Role, true, nil
}

// ProjectIDs returns every project the user is a member of, used by the
// live-update gateway to decide which channels a connection may follow.
func ProjectIDs(ctx context.Context, userID string) ([]string, error) {
	list, err := mongodb.NewProjectMembershipColl().ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list project memberships")
	}

	resp := make([]string, 0, len(list))
	for _, m := range list {
		resp = append(resp, m.ProjectID)
	}
	return resp, nil
}
