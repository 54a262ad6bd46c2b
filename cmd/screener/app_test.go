package main

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type AppTestSuite struct {
	suite.Suite
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (suite *AppTestSuite) TestNormalizeTickers() {
	suite.Equal([]string{"AAPL", "MSFT", "GOOG"}, normalizeTickers([]string{"aapl, msft", " goog ", ""}))
	suite.Empty(normalizeTickers(nil))
}
