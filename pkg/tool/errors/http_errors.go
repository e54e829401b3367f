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

package errors

var (
	//-----------------------------------------------------------------------------------------------
	// Standard Error
	//-----------------------------------------------------------------------------------------------

	// ErrInvalidParam ...
	ErrInvalidParam = NewHTTPError(400, "Bad Request")
	// ErrUnauthorized ...
	ErrUnauthorized = NewHTTPError(401, "Unauthorized")
	// ErrForbidden — actor's project role does not permit the operation
	ErrForbidden = NewHTTPError(403, "Forbidden")
	// ErrNotFound ...
	ErrNotFound = NewHTTPError(404, "Request Not Found")
	// ErrConflict — uniqueness or cross-entity invariant violation
	ErrConflict = NewHTTPError(409, "Conflict")
	// ErrInvalidState — operation not valid for the entity's current lifecycle state
	ErrInvalidState = NewHTTPError(422, "Invalid State")
	// ErrInternalError ...
	ErrInternalError = NewHTTPError(500, "Internal Error")

	//-----------------------------------------------------------------------------------------------
	// Workflow APIs Range: 6000 - 6019
	//-----------------------------------------------------------------------------------------------

	ErrListTransitions      = NewHTTPError(6000, "Failed to list workflow transitions")
	ErrExecuteTransition    = NewHTTPError(6001, "Failed to execute workflow transition")
	ErrCreateTransition     = NewHTTPError(6002, "Failed to create workflow transition")
	ErrUpdateTransition     = NewHTTPError(6003, "Failed to update workflow transition")
	ErrDeleteTransition     = NewHTTPError(6004, "Failed to delete workflow transition")
	ErrCreateStatus         = NewHTTPError(6005, "Failed to create status")
	ErrUpdateStatus         = NewHTTPError(6006, "Failed to update status")
	ErrDeleteStatus         = NewHTTPError(6007, "Failed to delete status")

	//-----------------------------------------------------------------------------------------------
	// Sprint APIs Range: 6020 - 6039
	//-----------------------------------------------------------------------------------------------

	ErrCreateSprint   = NewHTTPError(6020, "Failed to create sprint")
	ErrUpdateSprint   = NewHTTPError(6021, "Failed to update sprint")
	ErrGetSprint      = NewHTTPError(6022, "Failed to get sprint")
	ErrListSprint     = NewHTTPError(6023, "Failed to list sprints")
	ErrStartSprint    = NewHTTPError(6024, "Failed to start sprint")
	ErrCompleteSprint = NewHTTPError(6025, "Failed to complete sprint")
	ErrDeleteSprint   = NewHTTPError(6026, "Failed to delete sprint")
	ErrSetIssueSprint = NewHTTPError(6027, "Failed to assign issue to sprint")

	//-----------------------------------------------------------------------------------------------
	// Issue APIs Range: 6040 - 6059
	//-----------------------------------------------------------------------------------------------

	ErrUpdateIssue  = NewHTTPError(6040, "Failed to update issue")
	ErrGetIssue     = NewHTTPError(6041, "Failed to get issue")
	ErrListActivity = NewHTTPError(6042, "Failed to list issue activity")
	ErrIssueEditing = NewHTTPError(6043, "Failed to update editing session")
	ErrCreateIssue  = NewHTTPError(6044, "Failed to create issue")
	ErrDeleteIssue  = NewHTTPError(6045, "Failed to delete issue")

	//-----------------------------------------------------------------------------------------------
	// Analytics APIs Range: 6060 - 6079
	//-----------------------------------------------------------------------------------------------

	ErrGetVelocity = NewHTTPError(6060, "Failed to compute velocity")
	ErrGetBurndown = NewHTTPError(6061, "Failed to compute burndown")
)
