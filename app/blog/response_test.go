package blog

import (
	"errors"
	"testing"
)

func TestMemberResponseRoundTrip(t *testing.T) {
	r := NewMemberResponse(entryXML)
	if r.String() != entryXML {
		t.Error("Expected wrapped body to round-trip unchanged")
	}
}

func TestMemberResponseEntry(t *testing.T) {
	entry, err := NewMemberResponse(entryXML).Entry()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if entry.ID.String() != "2500000000" {
		t.Errorf("Expected id '2500000000', got: %s", entry.ID)
	}
}

func TestMemberResponseEntryInvalid(t *testing.T) {
	if _, err := NewMemberResponse("garbage").Entry(); !errors.Is(err, ErrParseEntry) {
		t.Errorf("Expected ErrParseEntry, got: %v", err)
	}
}

func TestEmptyResponse(t *testing.T) {
	// Delete responses carry no content: whatever body arrives is discarded.
	r := NewEmptyResponse("ignored body")
	if r.String() != "" {
		t.Errorf("Expected empty string, got: %q", r.String())
	}
}

func TestCollectionResponsePartialList(t *testing.T) {
	list, err := NewCollectionResponse(feedXML).PartialList()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if list.NextPage != "1377584217" {
		t.Errorf("Expected cursor '1377584217', got: %q", list.NextPage)
	}
	if len(list.EntryIDs) != 1 || list.EntryIDs[0].String() != "2500000000" {
		t.Errorf("Expected ids [2500000000], got: %v", list.EntryIDs)
	}
}

func TestCollectionResponseEntryList(t *testing.T) {
	nextPage, entries, err := NewCollectionResponse(feedXML).EntryList()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if nextPage != "1377584217" {
		t.Errorf("Expected cursor '1377584217', got: %q", nextPage)
	}
	if len(entries) != 1 || entries[0].Title != "記事タイトル" {
		t.Errorf("Expected one hydrated entry, got: %+v", entries)
	}
}

func TestCollectionResponseRoundTrip(t *testing.T) {
	if NewCollectionResponse(feedXML).String() != feedXML {
		t.Error("Expected wrapped body to round-trip unchanged")
	}
}

func TestCategoryDocumentResponseCategories(t *testing.T) {
	categories, err := NewCategoryDocumentResponse(categoryDocumentXML).Categories()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(categories) != 2 || categories[0] != "Perl" || categories[1] != "Scala" {
		t.Errorf("Expected [Perl Scala], got: %v", categories)
	}
}

func TestCategoryDocumentResponseRoundTrip(t *testing.T) {
	if NewCategoryDocumentResponse(categoryDocumentXML).String() != categoryDocumentXML {
		t.Error("Expected wrapped body to round-trip unchanged")
	}
}
