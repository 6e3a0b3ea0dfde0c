package common

import (
	"context"
	"io"

	"prepscore/internal/errors"
)

// CreateInputFunc defines how to create the operation input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// ScoreOperationFunc is a scoring operation over a prepared input.
type ScoreOperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunScoreCommand encapsulates the common logic for file-based CLI commands:
// read and validate files, build the input, score it and write the result.
func RunScoreCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation ScoreOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	return runScoreCommand(ctx, logger, cmdConfig, args, createInput, operation, logDetails, NewOutputHandler(logger))
}

// RunScoreCommandTo is RunScoreCommand printing to w instead of stdout
func RunScoreCommandTo[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation ScoreOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
	w io.Writer,
) error {
	return runScoreCommand(ctx, logger, cmdConfig, args, createInput, operation, logDetails, NewOutputHandlerWithWriter(logger, w))
}

func runScoreCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation ScoreOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
	outputHandler *OutputHandler,
) error {
	fileProcessor := NewFileProcessor(logger, cmdConfig.MaxFileSize)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, err := operation(ctx, input)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
