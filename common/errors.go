package common

import (
	"errors"
	"fmt"
)

// error kinds, stable and machine readable
type ErrorKind string

const (
	KIND_VALIDATION ErrorKind = "validation"
	KIND_NOT_FOUND  ErrorKind = "not_found"
	KIND_CONFLICT   ErrorKind = "conflict"
	KIND_UPSTREAM   ErrorKind = "upstream"
	KIND_INVARIANT  ErrorKind = "invariant"
	KIND_INTERNAL   ErrorKind = "internal"
)

// Error carries a kind and a code. Two errors match with errors.Is when
// their codes are equal, so the formatted variants created by With
// still compare equal to the base instance.
type Error struct {
	Kind ErrorKind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// With returns a copy with a formatted message.
func (e *Error) With(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Msg: fmt.Sprintf(format, args...), Err: e.Err}
}

// Wrap returns a copy that keeps cause as the underlying error.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Msg: e.Msg, Err: cause}
}

func newError(kind ErrorKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

func NewValidationError(code, msg string) *Error { return newError(KIND_VALIDATION, code, msg) }
func NewNotFoundError(code, msg string) *Error   { return newError(KIND_NOT_FOUND, code, msg) }
func NewConflictError(code, msg string) *Error   { return newError(KIND_CONFLICT, code, msg) }
func NewUpstreamError(code, msg string) *Error   { return newError(KIND_UPSTREAM, code, msg) }
func NewInvariantError(code, msg string) *Error  { return newError(KIND_INVARIANT, code, msg) }

// keep in alphabetic order within each kind
var (
	ErrInvalidCursor            = NewValidationError("invalid_cursor", "invalid pagination cursor")
	ErrInvalidPubkey            = NewValidationError("invalid_pubkey", "invalid public key")
	ErrInvalidRequest           = NewValidationError("invalid_request", "invalid request")
	ErrLimitTooBig              = NewValidationError("limit_too_big", "limit is too big")
	ErrMalformedMintInstruction = NewValidationError("malformed_mint_instruction", "malformed mpl-core create v1 instruction")
	ErrMalformedTransaction     = NewValidationError("malformed_transaction", "malformed transaction")
	ErrMissingAuthority         = NewValidationError("missing_authority", "mint transaction has no authority")
	ErrMissingOwner             = NewValidationError("missing_owner", "mint transaction has no owner")
	ErrNoInstruction            = NewValidationError("no_instruction", "transaction contains no instructions")
	ErrPageTooBig               = NewValidationError("page_too_big", "page is too big")
	ErrUnexpectedInstructions   = NewValidationError("unexpected_instructions", "transaction contains other unexpected instructions")
	ErrWrongAuthority           = NewValidationError("wrong_authority", "mint transaction authority does not match the asset")
	ErrWrongCollection          = NewValidationError("wrong_collection", "mint transaction collection does not match the asset")
	ErrWrongMetadataUri         = NewValidationError("wrong_metadata_uri", "mint transaction metadata uri does not match the asset")
	ErrWrongName                = NewValidationError("wrong_name", "mint transaction name does not match the asset")
	ErrWrongOwner               = NewValidationError("wrong_owner", "mint transaction owner does not match the asset")
	ErrWrongProgramId           = NewValidationError("wrong_program_id", "wrong mpl-core program id")

	ErrAssetNotFound = NewNotFoundError("asset_not_found", "no asset found with given id")

	ErrAlreadySentForMint = NewConflictError("already_sent_for_mint", "asset has already been sent for mint")
	ErrAssetImmutable     = NewConflictError("asset_immutable", "asset is minting or minted and can not be changed")
	ErrMintInFlight       = NewConflictError("mint_in_flight", "another mint of the asset is in flight")

	ErrLedger          = NewUpstreamError("ledger_error", "ledger request failed")
	ErrMintRejected    = NewUpstreamError("mint_rejected", "mint transaction was rejected by the ledger")
	ErrMintUnconfirmed = NewUpstreamError("mint_unconfirmed", "mint transaction was not confirmed in time")
	ErrObjectStore     = NewUpstreamError("object_store_error", "object store request failed")

	ErrNoMintAttempt = NewInvariantError("no_mint_attempt", "asset has no matching mint attempt")
	ErrNotMinting    = NewInvariantError("asset_not_minting", "asset is not in minting state")
)

// KindOf returns the kind of err, KIND_INTERNAL when err carries none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KIND_INTERNAL
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// CodeOf returns the code of err, "internal" when err carries none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return string(KIND_INTERNAL)
}
