package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// CreateBook godoc
// @Summary      Create a new book
// @Description  Persists a new book record after running the creation ruleset.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        book body Book true "book to create"
// @Success      201 {object} Book
// @Failure      400 {array} FieldError
// @Router       /v1/books [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	book := Book{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	err := DecodeCreateOrUpdateBookRequestBody(r, &book)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to decode the book payload")
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if ferrs := api.createRules.Validate(r.Context(), book); len(ferrs) > 0 {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Any("violations", ferrs))
		if err = WriteValidationErrors(w, ferrs); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err = api.bookService.Add(r.Context(), book)
	if errors.Is(err, ErrBookAlreadyExists) {
		// lost the race against a concurrent create on the same isbn.
		api.logger.Error("failed to create book", zap.String("book.isbn", book.Isbn), zap.String("request.id", requestID), zap.Error(err))
		ferrs := []FieldError{{PropertyName: "Isbn", ErrorMessage: "A book with this ISBN-13 already exists"}}
		if err = WriteValidationErrors(w, ferrs); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to create the book")
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create book", zap.String("book.isbn", book.Isbn), zap.String("request.id", requestID))
	w.Header().Set("Location", "/v1/books/"+book.Isbn)
	if err = WriteJSONResponse(w, http.StatusCreated, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOneBook godoc
// @Summary      Fetch one book
// @Description  Retrieves the book record stored under the given isbn.
// @Tags         books
// @Produce      json
// @Param        isbn path string true "isbn of the book"
// @Success      200 {object} Book
// @Failure      404 {object} APIError
// @Router       /v1/books/{isbn} [get]
func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	isbn := ps.ByName("isbn")
	book, err := api.bookService.GetByIsbn(r.Context(), isbn)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.String("book.isbn", isbn), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "book does not exist")
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to get book", zap.String("book.isbn", isbn), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get the book")
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get book", zap.String("book.isbn", isbn), zap.String("request.id", requestID))
	if err = WriteJSONResponse(w, http.StatusOK, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// SearchBooks godoc
// @Summary      Search books by title
// @Description  Retrieves all books whose title contains the search term, ignoring case. Without a term it lists every book.
// @Tags         books
// @Produce      json
// @Param        searchTerm query string false "substring to look for in titles"
// @Success      200 {array} Book
// @Router       /v1/books [get]
func (api *APIHandler) SearchBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	term := r.URL.Query().Get("searchTerm")
	books, err := api.bookService.SearchByTitle(r.Context(), term)
	if err != nil {
		api.logger.Error("failed to search books", zap.String("request.term", term), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to search books")
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to search books", zap.String("request.term", term), zap.Int("request.matchs", len(books)), zap.String("request.id", requestID))
	if books == nil {
		books = []Book{}
	}
	if err = WriteJSONResponse(w, http.StatusOK, books); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateBook godoc
// @Summary      Update an existing book
// @Description  Replaces all fields except the isbn of the book stored under the given isbn.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        isbn path string true "isbn of the book"
// @Param        book body Book true "new book data"
// @Success      200 {object} Book
// @Failure      400 {array} FieldError
// @Failure      404 {object} APIError
// @Router       /v1/books/{isbn} [put]
func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var book Book
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	isbn := ps.ByName("isbn")
	err := DecodeCreateOrUpdateBookRequestBody(r, &book)
	if err != nil {
		api.logger.Error("failed to update book", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to decode the book payload")
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	// the isbn of the record is fixed by the route.
	book.Isbn = isbn
	if ferrs := api.updateRules.Validate(r.Context(), book); len(ferrs) > 0 {
		api.logger.Error("failed to update book", zap.String("request.id", requestID), zap.Any("violations", ferrs))
		if err = WriteValidationErrors(w, ferrs); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err = api.bookService.Update(r.Context(), isbn, book)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.String("book.isbn", isbn), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "book does not exist")
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to update book", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to update the book")
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to update book", zap.String("book.isbn", isbn), zap.String("request.id", requestID))
	if err = WriteJSONResponse(w, http.StatusOK, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteOneBook godoc
// @Summary      Delete one book
// @Description  Removes the book record stored under the given isbn.
// @Tags         books
// @Param        isbn path string true "isbn of the book"
// @Success      204
// @Failure      404 {object} APIError
// @Router       /v1/books/{isbn} [delete]
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	isbn := ps.ByName("isbn")
	err := api.bookService.Delete(r.Context(), isbn)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.String("book.isbn", isbn), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "book does not exist")
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to delete book", zap.String("book.isbn", isbn), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to delete the book")
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to delete book", zap.String("book.isbn", isbn), zap.String("request.id", requestID))
	w.WriteHeader(http.StatusNoContent)
}
