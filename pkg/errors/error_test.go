package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewAndFormat() {
	err := Newf(ErrCodeDataNotFound, "no price bars for %s", "AAPL")
	suite.Equal("[200] no price bars for AAPL", err.Error())
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestWrapKeepsCause() {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeDataSourceUnavailable, "failed to list instruments", cause)

	suite.Equal("[201] failed to list instruments: connection refused", err.Error())
	suite.True(Is(err, cause))
	suite.True(IsUpstreamUnavailable(err))
}

func (suite *ErrorTestSuite) TestGetCodeThroughFmtWrap() {
	inner := New(ErrCodeMalformedData, "close is null")
	outer := fmt.Errorf("load bars: %w", inner)

	suite.Equal(ErrCodeMalformedData, GetCode(outer))
	suite.True(IsMalformedData(outer))
	suite.False(IsUpstreamUnavailable(outer))
}

func (suite *ErrorTestSuite) TestGetCodeUnknown() {
	suite.Equal(ErrCodeUnknown, GetCode(fmt.Errorf("plain")))
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := NewInsufficientDataErrorf(100, 42, "AAPL", "need %d rows, got %d", 100, 42)

	suite.Equal("need 100 rows, got 42", err.Error())
	suite.True(IsInsufficientDataError(fmt.Errorf("wrapped: %w", err)))
	suite.False(IsInsufficientDataError(New(ErrCodeUnknown, "other")))
}
