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

package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Catter58/CTrack/pkg/tool/log"
)

// Session starts a new client session for a multi-document transaction.
// Callers own the session and must EndSession it.
func Session() mongo.Session {
	session, err := Client().StartSession()
	if err != nil {
		log.Panicf("Failed to start mongo session, err: %v", err)
	}
	return session
}

func StartTransaction(session mongo.Session) error {
	return session.StartTransaction()
}

func CommitTransaction(session mongo.Session) error {
	return session.CommitTransaction(context.TODO())
}

func AbortTransaction(session mongo.Session) error {
	return session.AbortTransaction(context.TODO())
}

// SessionContext binds ctx to session when one is present so collection calls
// made by a WithSession coll participate in the transaction.
func SessionContext(ctx context.Context, session mongo.Session) context.Context {
	if session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, session)
}
