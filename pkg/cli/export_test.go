package cli

var WriteScoreTable = writeScoreTable

var FirestoreIndexes = firestoreIndexes
