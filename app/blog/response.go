package blog

// PartialList is one page of the entry collection: the cursor for the next
// page ("" when the feed has no next link) and the entry ids on this page,
// in document order.
type PartialList struct {
	NextPage string
	EntryIDs []EntryID
}

// Operation-named aliases for the response wrapper each API call produces.
type (
	CreateEntryResponse    = MemberResponse
	DeleteEntryResponse    = EmptyResponse
	GetEntryResponse       = MemberResponse
	ListCategoriesResponse = CategoryDocumentResponse
	ListEntriesResponse    = CollectionResponse
	UpdateEntryResponse    = MemberResponse
)

// MemberResponse wraps the raw body of a single-entry document. Construction
// never fails; the body is only interpreted when Entry is called.
type MemberResponse struct {
	body string
}

func NewMemberResponse(body string) MemberResponse {
	return MemberResponse{body: body}
}

func (r MemberResponse) String() string {
	return r.body
}

// Entry parses the wrapped document into the entry it represents.
func (r MemberResponse) Entry() (*Entry, error) {
	return ParseEntryXML(r.body)
}

// EmptyResponse is the no-content result of a delete. Whatever body produced
// it is discarded and it always stringifies to "".
type EmptyResponse struct{}

func NewEmptyResponse(string) EmptyResponse {
	return EmptyResponse{}
}

func (EmptyResponse) String() string {
	return ""
}

// CollectionResponse wraps the raw body of a feed document.
type CollectionResponse struct {
	body string
}

func NewCollectionResponse(body string) CollectionResponse {
	return CollectionResponse{body: body}
}

func (r CollectionResponse) String() string {
	return r.body
}

// PartialList parses the wrapped feed into the lightweight projection: the
// next-page cursor plus entry ids only.
func (r CollectionResponse) PartialList() (*PartialList, error) {
	nextPage, entries, err := ParseFeedXML(r.body)
	if err != nil {
		return nil, err
	}

	ids := make([]EntryID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}

	return &PartialList{NextPage: nextPage, EntryIDs: ids}, nil
}

// EntryList parses the wrapped feed into fully hydrated entries plus the
// next-page cursor.
func (r CollectionResponse) EntryList() (string, []*Entry, error) {
	return ParseFeedXML(r.body)
}

// CategoryDocumentResponse wraps the raw body of a category document.
type CategoryDocumentResponse struct {
	body string
}

func NewCategoryDocumentResponse(body string) CategoryDocumentResponse {
	return CategoryDocumentResponse{body: body}
}

func (r CategoryDocumentResponse) String() string {
	return r.body
}

// Categories parses the wrapped document into its category terms.
func (r CategoryDocumentResponse) Categories() ([]string, error) {
	return ParseCategoryDocumentXML(r.body)
}
