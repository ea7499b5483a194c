// Package codelens is a hybrid code-intelligence retrieval service: three
// persistent stores joined on symbol id, an incremental extraction and
// indexing pipeline, a query rewriter, a hybrid multi-source retriever, and
// a token-budgeted context assembler, exposed through the Engine facade and
// its QueryBuilder.
package codelens
