package service

import "omigec/cmd/internal/domain/entity"

// changeSet tracks if a PATCH actually changed something, so untouched
// rows are not written back.
type changeSet struct {
	dirty bool
}

// setString handles standard string fields (City, Bio, etc.)
func (c *changeSet) setString(newVal *string, targetField *string) {
	if newVal == nil || *newVal == *targetField {
		return
	}

	*targetField = *newVal
	c.dirty = true
}

// setDomains stores the normalized list. A nil slice means "not sent".
func (c *changeSet) setDomains(newVal []string, targetField *string) {
	if newVal == nil {
		return
	}

	joined := entity.JoinDomains(newVal)
	if joined == *targetField {
		return
	}

	*targetField = joined
	c.dirty = true
}
