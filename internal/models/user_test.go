package models

import (
	"reflect"
	"strings"
	"testing"
)

// Identity-provider subjects such as "auth0|64f1a2b3" are not UUIDs, so
// the column must stay a plain text primary key.
func TestUserIDColumnAcceptsOpaqueSubjects(t *testing.T) {
	field, ok := reflect.TypeOf(User{}).FieldByName("ID")
	if !ok {
		t.Fatal("User has no ID field")
	}
	tag := field.Tag.Get("gorm")
	if !strings.Contains(tag, "type:text") {
		t.Errorf("User.ID gorm tag = %q, want a text column", tag)
	}
	if strings.Contains(tag, "uuid") {
		t.Errorf("User.ID gorm tag = %q, must not constrain subjects to uuid", tag)
	}
}
