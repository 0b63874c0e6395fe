// Package crm defines the Client and Contact aggregates and the ClientContact association
// between them.
//
// Aggregates are created through NewClient / NewContact, which validate their input, or
// rebuilt from stored fields through the Restore* functions. A ClientContact is only ever
// created by Client.LinkContact, Contact.LinkClient or RestoreLink, and each of them registers
// the association on both aggregates before returning.
package crm
