// Package models defines the core domain models for sharebook.
//
// # Sharing
//
// A shared calendar is a Group. Accepted participants are GroupMember
// records kept in the group's member list; pending offers are
// SentGroupInvitation records kept in the group's invitation list. Display
// metadata for groups and users lives in GroupInfo records.
//
// # Booking
//
// A Customer books features (user seats, storage, sharing, ...). Price
// quotes for a requested change are described by PriceQuote, which carries
// the current and future PriceData snapshots.
//
// # Design Principles
//
//  1. List elements are addressed by IDTuple (list id + element id).
//  2. Relationships use ID strings, never pointers between records.
//  3. Models carry json tags because they travel as RPC payloads as-is.
package models
