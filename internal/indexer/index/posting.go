package index

// PostingList holds the positions of the records containing a term, in
// record order. A record appears once per occurrence of the term in it.
type PostingList []int

// QueryResult maps each queried term to its postings. Terms absent from the
// index map to an empty list.
type QueryResult map[string]PostingList
