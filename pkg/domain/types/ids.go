package types

import "strconv"

// ProjectID identifies a project
type ProjectID int64

// AttributeID identifies an attribute (a cross-cutting quality goal)
type AttributeID int64

// ComponentID identifies a component (a functional area)
type ComponentID int64

// CapabilityID identifies a capability
type CapabilityID int64

// IDs are allocated from 1. Zero means "not associated".

func (id ProjectID) IsSet() bool    { return id > 0 }
func (id AttributeID) IsSet() bool  { return id > 0 }
func (id ComponentID) IsSet() bool  { return id > 0 }
func (id CapabilityID) IsSet() bool { return id > 0 }

func (id ProjectID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id AttributeID) String() string  { return strconv.FormatInt(int64(id), 10) }
func (id ComponentID) String() string  { return strconv.FormatInt(int64(id), 10) }
func (id CapabilityID) String() string { return strconv.FormatInt(int64(id), 10) }
