package test

import (
	"go.uber.org/mock/gomock"
	"org_relay/logic"
	"org_relay/test/mocks"
)

func stubLogger(mockLogger *mocks.MockILogger) {
	mockLogger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warnf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Printf(gomock.Any(), gomock.Any()).AnyTimes()
}

type nopObserver struct{}

func (nopObserver) Finish() {}

func stubMetrics(mockMetrics *mocks.MockIMetrics) {
	mockMetrics.EXPECT().StartWebRequestIn(gomock.Any()).Return(logic.IRequestObserver(nopObserver{})).AnyTimes()
	mockMetrics.EXPECT().StartJob(gomock.Any()).Return(logic.IRequestObserver(nopObserver{})).AnyTimes()
	mockMetrics.EXPECT().FeedFetched(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().NewPostsSaved(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().ParseWarnings(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().JobTickSkipped(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().FeedsDiscovered(gomock.Any(), gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().FeedsPruned(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().IndexRebuilt(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().FeedCount(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().StreamClients(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().ServiceStarted().AnyTimes()
}

func stubUserAgent(mockUserAgent *mocks.MockIUserAgent) {
	mockUserAgent.EXPECT().AddUserAgent(gomock.Any()).AnyTimes()
}
