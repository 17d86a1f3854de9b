package model

import internalmodel "github.com/goliatone/go-formblock/internal/model"

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	FieldKindText     = internalmodel.FieldKindText
	FieldKindTextarea = internalmodel.FieldKindTextarea
	FieldKindEmail    = internalmodel.FieldKindEmail
	FieldKindNumber   = internalmodel.FieldKindNumber
	FieldKindSelect   = internalmodel.FieldKindSelect
	FieldKindCheckbox = internalmodel.FieldKindCheckbox
	FieldKindCountry  = internalmodel.FieldKindCountry
	FieldKindState    = internalmodel.FieldKindState
	FieldKindMessage  = internalmodel.FieldKindMessage
	FieldKindUnknown  = internalmodel.FieldKindUnknown
)

type ConfirmationType = internalmodel.ConfirmationType

const (
	ConfirmationMessage  = internalmodel.ConfirmationMessage
	ConfirmationRedirect = internalmodel.ConfirmationRedirect
)

type RedirectType = internalmodel.RedirectType

const (
	RedirectCustom    = internalmodel.RedirectCustom
	RedirectReference = internalmodel.RedirectReference
)

const (
	BlockTypeForm    = internalmodel.BlockTypeForm
	BlockTypeContent = internalmodel.BlockTypeContent
)

type Option = internalmodel.Option
type Field = internalmodel.Field
type Reference = internalmodel.Reference
type ReferenceValue = internalmodel.ReferenceValue
type Redirect = internalmodel.Redirect
type FormDefinition = internalmodel.FormDefinition
type SubmissionEntry = internalmodel.SubmissionEntry
type SubmissionPayload = internalmodel.SubmissionPayload
type Node = internalmodel.Node
type RichText = internalmodel.RichText
type FormBlock = internalmodel.FormBlock
type ContentBlock = internalmodel.ContentBlock
type Block = internalmodel.Block
type Page = internalmodel.Page
type Link = internalmodel.Link
type NavItem = internalmodel.NavItem
type MainMenu = internalmodel.MainMenu

// Kinds returns the closed set of field kinds.
func Kinds() []FieldKind {
	return internalmodel.Kinds()
}

// ParseFieldKind maps a raw blockType tag onto a known kind.
func ParseFieldKind(raw string) FieldKind {
	return internalmodel.ParseFieldKind(raw)
}
