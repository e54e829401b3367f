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

package types

import "k8s.io/apimachinery/pkg/util/sets"

// Role is a user's role inside one project. Roles are per-membership, a user
// may hold different roles in different projects.
type Role string

const (
	RoleViewer  Role = "viewer"
	RoleMember  Role = "member"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleMember, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanEdit reports whether the role may mutate issues at all. Viewers are
// read-only regardless of workflow configuration.
func (r Role) CanEdit() bool {
	return r == RoleMember || r == RoleManager || r == RoleAdmin
}

// CanManage reports whether the role may change project configuration such as
// workflow transitions and sprint lifecycle.
func (r Role) CanManage() bool {
	return r == RoleManager || r == RoleAdmin
}

// RoleSet builds a set from a stored role list so authorization checks are a
// single membership test.
func RoleSet(roles []Role) sets.String {
	s := sets.NewString()
	for _, r := range roles {
		s.Insert(string(r))
	}
	return s
}

type UserBriefInfo struct {
	UID  string `bson:"uid"  json:"uid"`
	Name string `bson:"name" json:"name"`
}
