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

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	"github.com/Catter58/CTrack/pkg/types"
)

var (
	statusTodo  = primitive.NewObjectID()
	statusDoing = primitive.NewObjectID()
	statusDone  = primitive.NewObjectID()
)

func testTransitions() []*models.WorkflowTransition {
	return []*models.WorkflowTransition{
		{
			ID:           primitive.NewObjectID(),
			ProjectID:    "demo",
			FromStatusID: statusTodo,
			ToStatusID:   statusDoing,
			Name:         "start work",
		},
		{
			ID:           primitive.NewObjectID(),
			ProjectID:    "demo",
			FromStatusID: statusDoing,
			ToStatusID:   statusDone,
			Name:         "finish",
			AllowedRoles: []types.Role{types.RoleManager, types.RoleAdmin},
		},
		{
			ID:           primitive.NewObjectID(),
			ProjectID:    "demo",
			FromStatusID: statusDone,
			ToStatusID:   statusTodo,
			Name:         "reopen",
			AllowedRoles: []types.Role{types.RoleMember, types.RoleManager, types.RoleAdmin},
		},
	}
}

func TestPermittedTransitions(t *testing.T) {
	transitions := testTransitions()

	tests := []struct {
		name string
		role types.Role
		want []string
	}{
		{
			name: "viewer only passes open edges",
			role: types.RoleViewer,
			want: []string{"start work"},
		},
		{
			name: "member passes open and member edges",
			role: types.RoleMember,
			want: []string{"start work", "reopen"},
		},
		{
			name: "manager passes everything",
			role: types.RoleManager,
			want: []string{"start work", "finish", "reopen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := permittedTransitions(transitions, tt.role)
			names := make([]string, 0, len(got))
			for _, tr := range got {
				names = append(names, tr.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestAllowTransition(t *testing.T) {
	transitions := testTransitions()

	tests := []struct {
		name string
		from primitive.ObjectID
		to   primitive.ObjectID
		role types.Role
		want bool
	}{
		{"edge exists and is open", statusTodo, statusDoing, types.RoleViewer, true},
		{"edge missing", statusTodo, statusDone, types.RoleAdmin, false},
		{"role not in set", statusDoing, statusDone, types.RoleMember, false},
		{"role in set", statusDoing, statusDone, types.RoleManager, true},
		{"reverse direction has no edge", statusDoing, statusTodo, types.RoleAdmin, false},
		{"cycle back to todo", statusDone, statusTodo, types.RoleMember, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, allowTransition(transitions, tt.from, tt.to, tt.role))
		})
	}
}

func TestTransitionPermitsEmptyRoleSet(t *testing.T) {
	open := &models.WorkflowTransition{Name: "open edge"}
	for _, role := range []types.Role{types.RoleViewer, types.RoleMember, types.RoleManager, types.RoleAdmin} {
		assert.True(t, open.Permits(role), "empty allowed_roles must admit %s", role)
	}
}

func TestValidCategory(t *testing.T) {
	assert.True(t, validCategory("todo"))
	assert.True(t, validCategory("in_progress"))
	assert.True(t, validCategory("done"))
	assert.False(t, validCategory("archived"))
	assert.False(t, validCategory(""))
}
