// Package classify derives C# accessibility levels and modifier sets from
// the raw visibility codes and attribute flags of the metadata model.
//
// Properties and events are classified per accessor. Accessors returns the
// pair (get/set or add/remove); Classify summarizes the pair into the
// member-level accessibility (the less restrictive accessor) and modifiers
// (the first accessor's set, without Readonly). AccessorPair.Restricted
// names the accessor whose accessibility must be rendered inline.
//
// Raw virtual-dispatch flags are mapped as follows:
//
//	virtual             -> override
//	virtual new_slot    -> virtual
//	virtual final       -> sealed override
//	virtual final new_slot -> (implicit interface implementation, nothing)
//	abstract            -> abstract
package classify
